package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Restaurant struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Description string `gorm:"not null"`
	ImageURL    string `gorm:"default:/placeholder.svg"`
	Rating      float64
	DeliveryFee decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MinOrder    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsActive    bool            `gorm:"index;not null"`

	MenuItems []MenuItem
}
