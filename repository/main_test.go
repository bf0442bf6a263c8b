package repository

import (
	"testing"

	"foodcart/configs"
	"foodcart/entity"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := configs.OpenDatabase(":memory:", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, configs.SetupDatabase(db))
	t.Cleanup(func() { _ = configs.CloseDatabase(db) })
	return db
}

func createRestaurant(t *testing.T, db *gorm.DB, name string, active bool) entity.Restaurant {
	t.Helper()
	r := entity.Restaurant{
		Name: name, Description: name + " kitchen",
		DeliveryFee: decimal.NewFromInt(2), MinOrder: decimal.NewFromInt(10), IsActive: active,
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func createMenuItem(t *testing.T, db *gorm.DB, restaurantID uint, name string, price string, available bool) entity.MenuItem {
	t.Helper()
	m := entity.MenuItem{
		Name: name, Price: decimal.RequireFromString(price),
		RestaurantID: restaurantID, IsAvailable: available,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}
