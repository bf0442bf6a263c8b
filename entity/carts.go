package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices go over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Cart is the whole aggregate; every save rewrites its lines.
// Version is bumped on each save and guards against lost updates.
type Cart struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       string `gorm:"uniqueIndex;not null"`
	RestaurantID uint   `gorm:"index;not null"`
	Version      uint   `gorm:"not null;default:0"`

	Lines []CartLine `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}

// Line returns the index of the line for menuItemID, or -1.
func (c *Cart) Line(menuItemID uint) int {
	for i := range c.Lines {
		if c.Lines[i].MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

// Total is always derived from the current lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
