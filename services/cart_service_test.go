package services

import (
	"context"
	"sync"
	"testing"

	"foodcart/entity"
	"foodcart/pkg/apperr"
	"foodcart/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCartService_Scenario(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	svc := f.svc

	_, err := svc.GetCart(ctx, "u")
	require.ErrorIs(t, err, ErrCartNotFound)

	_, err = svc.AddItem(ctx, "u", f.add(f.r1, f.m1, 2, "10.0"))
	require.NoError(t, err)

	cart, err := svc.GetCart(ctx, "u")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, f.m1.ID, cart.Items[0].MenuItemID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.True(t, dec("10").Equal(cart.Items[0].Price))
	assert.True(t, dec("20").Equal(cart.Total))

	cart, err = svc.AddItem(ctx, "u", f.add(f.r1, f.m1, 1, "10.0"))
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.True(t, dec("30").Equal(cart.Total))

	_, err = svc.AddItem(ctx, "u", f.add(f.r2, f.m2, 1, "5.0"))
	require.ErrorIs(t, err, ErrCrossRestaurantConflict)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	cart, err = svc.GetCart(ctx, "u")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.True(t, dec("30").Equal(cart.Total))
	assert.Equal(t, f.r1.ID, cart.RestaurantID)

	cart, err = svc.UpdateQuantity(ctx, "u", f.m1.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, decimal.Zero.Equal(cart.Total))

	cart, err = svc.GetCart(ctx, "u")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_AddSumsQuantities(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	want := 0
	for _, q := range []int{1, 4, 2, 7} {
		_, err := f.svc.AddItem(ctx, "u", f.add(f.r1, f.m1, q, "10"))
		require.NoError(t, err)
		want += q
	}
	_, err := f.svc.AddItem(ctx, "u", f.add(f.r1, f.m3, 1, "2.5"))
	require.NoError(t, err)

	cart, err := f.svc.GetCart(ctx, "u")
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, f.m1.ID, cart.Items[0].MenuItemID)
	assert.Equal(t, want, cart.Items[0].Quantity)
	assert.Equal(t, f.m3.ID, cart.Items[1].MenuItemID)
}

func TestCartService_PriceIsSnapshot(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "u", f.add(f.r1, f.m1, 1, "9.99"))
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&entity.MenuItem{}).Where("id = ?", f.m1.ID).
		Updates(map[string]any{"price": "12.00", "name": "m1 renamed"}).Error)

	cart, err := f.svc.GetCart(ctx, "u")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	line := cart.Items[0]
	assert.True(t, dec("9.99").Equal(line.Price))
	require.NotNil(t, line.MenuItem)
	assert.Equal(t, "m1 renamed", line.MenuItem.Name)
	assert.True(t, dec("12").Equal(line.MenuItem.Price))
}

func TestCartService_DeletedMenuItemExpandsToNil(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "u", f.add(f.r1, f.m1, 1, "10"))
	require.NoError(t, err)
	require.NoError(t, f.db.Delete(&entity.MenuItem{}, f.m1.ID).Error)

	cart, err := f.svc.GetCart(ctx, "u")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Nil(t, cart.Items[0].MenuItem)
	assert.True(t, dec("10").Equal(cart.Total))
}

func TestCartService_AddValidatesMenuItem(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "u", AddToCartIn{RestaurantID: f.r1.ID, MenuItemID: 999, Quantity: 1, Price: dec("1")})
	require.Error(t, err)
	assert.Equal(t, "menu_item_not_found", apperr.As(err).Code)

	_, err = f.svc.AddItem(ctx, "u", f.add(f.r1, f.m2, 1, "5"))
	require.ErrorIs(t, err, ErrMenuItemRestaurantMismatch)

	_, err = f.svc.GetCart(ctx, "u")
	require.ErrorIs(t, err, ErrCartNotFound, "failed adds must not create a cart")
}

func TestCartService_EmptiedCartKeepsRestaurantScope(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "u", f.add(f.r1, f.m1, 2, "10"))
	require.NoError(t, err)
	_, err = f.svc.UpdateQuantity(ctx, "u", f.m1.ID, 0)
	require.NoError(t, err)

	_, err = f.svc.AddItem(ctx, "u", f.add(f.r2, f.m2, 1, "5"))
	require.ErrorIs(t, err, ErrCrossRestaurantConflict)

	_, err = f.svc.ClearCart(ctx, "u")
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, "u", f.add(f.r2, f.m2, 1, "5"))
	require.ErrorIs(t, err, ErrCrossRestaurantConflict)

	cart, err := f.svc.GetCart(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, f.r1.ID, cart.RestaurantID)
	assert.Empty(t, cart.Items)
}

func TestCartService_AddIgnoresAvailability(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "u", f.add(f.r1, f.m1, 2, "10"))
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&entity.MenuItem{}).Where("id = ?", f.m1.ID).Update("is_available", false).Error)

	cart, err := f.svc.AddItem(ctx, "u", f.add(f.r1, f.m1, 1, "10"))
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	require.NotNil(t, cart.Items[0].MenuItem)
	assert.False(t, cart.Items[0].MenuItem.IsAvailable)
}

func TestCartService_AddWithoutQuantityDoesNotCreateCart(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	for _, qty := range []int{0, -2} {
		cart, err := f.svc.AddItem(ctx, "u", f.add(f.r1, f.m1, qty, "10"))
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	}

	_, err := f.svc.GetCart(ctx, "u")
	require.ErrorIs(t, err, ErrCartNotFound)
	assert.Zero(t, f.notes.count())
}

func TestCartService_NegativeMergeDropsLine(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "u", f.add(f.r1, f.m1, 2, "10"))
	require.NoError(t, err)
	cart, err := f.svc.AddItem(ctx, "u", f.add(f.r1, f.m1, -5, "10"))
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.UpdateQuantity(ctx, "u", f.m1.ID, 3)
	require.ErrorIs(t, err, ErrCartNotFound)

	_, err = f.svc.AddItem(ctx, "u", f.add(f.r1, f.m1, 2, "10"))
	require.NoError(t, err)

	_, err = f.svc.UpdateQuantity(ctx, "u", f.m3.ID, 3)
	require.ErrorIs(t, err, ErrLineNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	cart, err := f.svc.UpdateQuantity(ctx, "u", f.m1.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity, "quantity is replaced, not incremented")
	assert.True(t, dec("50").Equal(cart.Total))

	cart, err = f.svc.GetCart(ctx, "u")
	require.NoError(t, err)
	assert.True(t, dec("50").Equal(cart.Total))

	cart, err = f.svc.UpdateQuantity(ctx, "u", f.m1.ID, -1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_RemoveItemIsIdempotent(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.RemoveItem(ctx, "u", f.m1.ID)
	require.ErrorIs(t, err, ErrCartNotFound)

	_, err = f.svc.AddItem(ctx, "u", f.add(f.r1, f.m1, 2, "10"))
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, "u", f.add(f.r1, f.m3, 1, "2.5"))
	require.NoError(t, err)

	once, err := f.svc.RemoveItem(ctx, "u", f.m1.ID)
	require.NoError(t, err)
	twice, err := f.svc.RemoveItem(ctx, "u", f.m1.ID)
	require.NoError(t, err)

	assert.Equal(t, once.Items, twice.Items)
	assert.True(t, once.Total.Equal(twice.Total))
	require.Len(t, twice.Items, 1)
	assert.Equal(t, f.m3.ID, twice.Items[0].MenuItemID)
}

func TestCartService_ClearCart(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.ClearCart(ctx, "u")
	require.ErrorIs(t, err, ErrCartNotFound)

	_, err = f.svc.AddItem(ctx, "u", f.add(f.r1, f.m1, 2, "10"))
	require.NoError(t, err)
	cart, err := f.svc.ClearCart(ctx, "u")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, f.r1.ID, cart.RestaurantID)
}

func TestCartService_Notifies(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "u", f.add(f.r1, f.m1, 2, "10"))
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, "u", f.add(f.r2, f.m2, 1, "5"))
	require.Error(t, err)
	_, err = f.svc.UpdateQuantity(ctx, "u", f.m1.ID, 4)
	require.NoError(t, err)

	require.Equal(t, 2, f.notes.count())
	last := f.notes.calls[1]
	assert.Equal(t, "u", last.UserID)
	assert.Equal(t, 4, last.Items[0].Quantity)

	_, err = f.svc.RemoveItem(ctx, "u", f.m3.ID)
	require.NoError(t, err)
	_, err = f.svc.ClearCart(ctx, "u")
	require.NoError(t, err)
	_, err = f.svc.ClearCart(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 3, f.notes.count(), "only the first clear changes the cart")
}

func TestCartService_ConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	f := newFixture(t, 50)
	ctx := context.Background()

	const workers = 12
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.AddItem(ctx, "u", f.add(f.r1, f.m1, 1, "10")); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Positive(t, ok)
	cart, err := f.svc.GetCart(ctx, "u")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, ok, cart.Items[0].Quantity)
}

type staleStore struct {
	saves int
}

func (s *staleStore) FindCartByUser(context.Context, string) (*entity.Cart, error) {
	return &entity.Cart{ID: 1, UserID: "u", RestaurantID: 1, Version: 1,
		Lines: []entity.CartLine{{MenuItemID: 1, Quantity: 1, Price: dec("1")}}}, nil
}

func (s *staleStore) Save(context.Context, *entity.Cart) error {
	s.saves++
	return repository.ErrStaleCart
}

func TestCartService_GivesUpAfterMaxAttempts(t *testing.T) {
	f := newFixture(t, 3)
	store := &staleStore{}
	f.svc.Carts = store

	_, err := f.svc.UpdateQuantity(context.Background(), "u", 1, 2)
	require.Error(t, err)
	assert.Equal(t, apperr.KindStale, apperr.KindOf(err))
	assert.Equal(t, 3, store.saves)
	assert.Zero(t, f.notes.count())
}
