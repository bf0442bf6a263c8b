package entity

import "github.com/shopspring/decimal"

type CartLine struct {
	ID       uint `gorm:"primaryKey"`
	CartID   uint `gorm:"index;not null"`
	Position int  `gorm:"not null"`

	MenuItemID uint `gorm:"not null"`
	Quantity   int  `gorm:"not null"`

	// price at add time, not the current catalog price
	Price decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
