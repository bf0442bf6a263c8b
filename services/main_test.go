package services

import (
	"sync"
	"testing"

	"foodcart/configs"
	"foodcart/entity"
	"foodcart/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	carts   *repository.CartRepository
	catalog *repository.CatalogRepository
	notes   *recordingNotifier
	svc     *CartService

	r1, r2 entity.Restaurant
	m1, m2 entity.MenuItem
	m3     entity.MenuItem // second item of r1
}

func newFixture(t *testing.T, maxAttempts int) *fixture {
	t.Helper()
	db, err := configs.OpenDatabase(":memory:", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, configs.SetupDatabase(db))
	t.Cleanup(func() { _ = configs.CloseDatabase(db) })

	f := &fixture{
		db:      db,
		carts:   repository.NewCartRepository(db),
		catalog: repository.NewCatalogRepository(db),
		notes:   &recordingNotifier{},
	}
	f.svc = NewCartService(f.carts, f.catalog, f.notes, maxAttempts, zerolog.Nop())

	f.r1 = entity.Restaurant{Name: "r1", Description: "d", DeliveryFee: decimal.Zero, MinOrder: decimal.Zero, IsActive: true}
	f.r2 = entity.Restaurant{Name: "r2", Description: "d", DeliveryFee: decimal.Zero, MinOrder: decimal.Zero, IsActive: true}
	require.NoError(t, db.Create(&f.r1).Error)
	require.NoError(t, db.Create(&f.r2).Error)

	f.m1 = entity.MenuItem{Name: "m1", Price: decimal.NewFromInt(10), RestaurantID: f.r1.ID, IsAvailable: true}
	f.m2 = entity.MenuItem{Name: "m2", Price: decimal.NewFromInt(5), RestaurantID: f.r2.ID, IsAvailable: true}
	f.m3 = entity.MenuItem{Name: "m3", Price: decimal.RequireFromString("2.5"), RestaurantID: f.r1.ID, IsAvailable: true}
	require.NoError(t, db.Create(&f.m1).Error)
	require.NoError(t, db.Create(&f.m2).Error)
	require.NoError(t, db.Create(&f.m3).Error)
	return f
}

func (f *fixture) add(restaurant entity.Restaurant, item entity.MenuItem, qty int, price string) AddToCartIn {
	return AddToCartIn{
		RestaurantID: restaurant.ID,
		MenuItemID:   item.ID,
		Quantity:     qty,
		Price:        decimal.RequireFromString(price),
	}
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []*CartView
}

func (n *recordingNotifier) CartChanged(_ string, v *CartView) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, v)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}
