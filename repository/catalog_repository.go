// repository/catalog_repository.go
package repository

import (
	"context"
	"errors"

	"foodcart/entity"
	"foodcart/pkg/apperr"

	"gorm.io/gorm"
)

var (
	ErrRestaurantNotFound = apperr.New(apperr.KindNotFound, "restaurant_not_found", "restaurant not found")
	ErrMenuItemNotFound   = apperr.New(apperr.KindNotFound, "menu_item_not_found", "menu item not found")
)

// CatalogRepository is read-only; catalog writes belong to another system.
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func (r *CatalogRepository) ListActiveRestaurants(ctx context.Context, limit int) ([]entity.Restaurant, error) {
	var rests []entity.Restaurant
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Limit(limit).
		Find(&rests).Error
	if err != nil {
		return nil, apperr.ErrReadFailed.Wrap(err)
	}
	return rests, nil
}

func (r *CatalogRepository) ListAvailableMenuItems(ctx context.Context, limit int) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	err := r.DB.WithContext(ctx).
		Where("is_available = ?", true).
		Order("id ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, apperr.ErrReadFailed.Wrap(err)
	}
	return items, nil
}

func (r *CatalogRepository) FindRestaurant(ctx context.Context, id uint) (*entity.Restaurant, error) {
	var rest entity.Restaurant
	err := r.DB.WithContext(ctx).First(&rest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, apperr.ErrReadFailed.Wrap(err)
	}
	return &rest, nil
}

// ListMenuItemsByRestaurant returns the available items of one restaurant.
func (r *CatalogRepository) ListMenuItemsByRestaurant(ctx context.Context, restaurantID uint) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	err := r.DB.WithContext(ctx).
		Where("restaurant_id = ? AND is_available = ?", restaurantID, true).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, apperr.ErrReadFailed.Wrap(err)
	}
	return items, nil
}

func (r *CatalogRepository) FindMenuItem(ctx context.Context, id uint) (*entity.MenuItem, error) {
	var item entity.MenuItem
	err := r.DB.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMenuItemNotFound
	}
	if err != nil {
		return nil, apperr.ErrReadFailed.Wrap(err)
	}
	return &item, nil
}

// FindMenuItemsByIDs returns the items that still exist, keyed by id.
func (r *CatalogRepository) FindMenuItemsByIDs(ctx context.Context, ids []uint) (map[uint]entity.MenuItem, error) {
	out := make(map[uint]entity.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var items []entity.MenuItem
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, apperr.ErrReadFailed.Wrap(err)
	}
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}
