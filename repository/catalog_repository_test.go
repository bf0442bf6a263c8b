package repository

import (
	"context"
	"fmt"
	"testing"

	"foodcart/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRepository_ListActiveRestaurants(t *testing.T) {
	db := openTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		createRestaurant(t, db, fmt.Sprintf("r%d", i), i%4 != 0)
	}

	rests, err := repo.ListActiveRestaurants(ctx, 6)
	require.NoError(t, err)
	require.Len(t, rests, 6)
	for _, r := range rests {
		assert.True(t, r.IsActive, r.Name)
	}
	assert.Equal(t, "r1", rests[0].Name)

	rests, err = repo.ListActiveRestaurants(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, rests, 2)
}

func TestCatalogRepository_ListAvailableMenuItems(t *testing.T) {
	db := openTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	r := createRestaurant(t, db, "r", true)
	for i := 0; i < 10; i++ {
		createMenuItem(t, db, r.ID, fmt.Sprintf("m%d", i), "1.50", i != 3)
	}

	items, err := repo.ListAvailableMenuItems(ctx, 8)
	require.NoError(t, err)
	require.Len(t, items, 8)
	for _, it := range items {
		assert.NotEqual(t, "m3", it.Name)
	}
}

func TestCatalogRepository_Find(t *testing.T) {
	db := openTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	r := createRestaurant(t, db, "r", true)
	other := createRestaurant(t, db, "other", true)
	m1 := createMenuItem(t, db, r.ID, "a", "2", true)
	createMenuItem(t, db, r.ID, "b", "3", false)
	m3 := createMenuItem(t, db, other.ID, "c", "4", true)

	got, err := repo.FindRestaurant(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "r", got.Name)

	_, err = repo.FindRestaurant(ctx, 999)
	require.ErrorIs(t, err, ErrRestaurantNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	item, err := repo.FindMenuItem(ctx, m1.ID)
	require.NoError(t, err)
	assert.True(t, item.Price.Equal(m1.Price))

	_, err = repo.FindMenuItem(ctx, 999)
	require.ErrorIs(t, err, ErrMenuItemNotFound)

	menu, err := repo.ListMenuItemsByRestaurant(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, m1.ID, menu[0].ID)

	byID, err := repo.FindMenuItemsByIDs(ctx, []uint{m1.ID, m3.ID, 999})
	require.NoError(t, err)
	assert.Len(t, byID, 2)
	assert.Equal(t, "c", byID[m3.ID].Name)

	empty, err := repo.FindMenuItemsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
