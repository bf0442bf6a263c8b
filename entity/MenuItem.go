package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MenuItem struct {
	gorm.Model
	Name  string          `gorm:"not null"`
	Price decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	RestaurantID uint       `gorm:"index;not null"`
	Restaurant   Restaurant `json:"-"` // preload only when needed

	IsAvailable bool `gorm:"index;not null"`
}
