package configs

import (
	"foodcart/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedCatalog inserts a small demo catalog when the restaurants table is
// empty. It returns whether anything was written.
func SeedCatalog(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Model(&entity.Restaurant{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	rests := []entity.Restaurant{
		{
			Name: "Burger House", Description: "Grilled burgers and fries",
			Rating: 4.5, DeliveryFee: decimal.RequireFromString("2.99"), MinOrder: decimal.NewFromInt(10), IsActive: true,
			MenuItems: []entity.MenuItem{
				{Name: "Classic Burger", Price: decimal.RequireFromString("8.50"), IsAvailable: true},
				{Name: "Cheese Fries", Price: decimal.RequireFromString("3.75"), IsAvailable: true},
				{Name: "Milkshake", Price: decimal.RequireFromString("4.25"), IsAvailable: true},
			},
		},
		{
			Name: "Pizza Roma", Description: "Wood-fired pizza",
			Rating: 4.7, DeliveryFee: decimal.RequireFromString("1.99"), MinOrder: decimal.NewFromInt(15), IsActive: true,
			MenuItems: []entity.MenuItem{
				{Name: "Margherita", Price: decimal.NewFromInt(11), IsAvailable: true},
				{Name: "Diavola", Price: decimal.RequireFromString("12.50"), IsAvailable: true},
				{Name: "Tiramisu", Price: decimal.RequireFromString("5.50"), IsAvailable: true},
			},
		},
		{
			Name: "Shawarma Corner", Description: "Wraps and plates",
			Rating: 4.2, DeliveryFee: decimal.Zero, MinOrder: decimal.NewFromInt(8), IsActive: true,
			MenuItems: []entity.MenuItem{
				{Name: "Chicken Shawarma", Price: decimal.RequireFromString("6.75"), IsAvailable: true},
				{Name: "Falafel Plate", Price: decimal.RequireFromString("7.25"), IsAvailable: true},
			},
		},
	}
	return true, db.Transaction(func(tx *gorm.DB) error {
		for i := range rests {
			if err := tx.Create(&rests[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
