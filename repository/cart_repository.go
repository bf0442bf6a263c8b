package repository

import (
	"context"
	"errors"
	"time"

	"foodcart/entity"
	"foodcart/pkg/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCartNotFound = apperr.New(apperr.KindNotFound, "cart_not_found", "cart not found")
	// ErrStaleCart means the cart changed between read and save.
	ErrStaleCart = apperr.New(apperr.KindStale, "cart_modified", "cart was modified by another request")
)

type CartRepository struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{DB: db, now: time.Now}
}

func (r *CartRepository) FindCartByUser(ctx context.Context, userID string) (*entity.Cart, error) {
	var c entity.Cart
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, apperr.ErrReadFailed.Wrap(err)
	}
	return &c, nil
}

// Save rewrites the whole aggregate. A new cart (ID 0) is inserted; an
// existing one is only written if its stored version still equals c.Version.
// On success c carries the new ID, version, timestamps and line ids.
func (r *CartRepository) Save(ctx context.Context, c *entity.Cart) error {
	now := r.now().UTC()
	next := *c
	next.Lines = make([]entity.CartLine, len(c.Lines))
	copy(next.Lines, c.Lines)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if next.ID == 0 {
			next.Version = 1
			next.CreatedAt = now
			next.UpdatedAt = now
			if err := tx.Omit(clause.Associations).Create(&next).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrStaleCart
				}
				return err
			}
		} else {
			res := tx.Model(&entity.Cart{}).
				Where("id = ? AND version = ?", next.ID, next.Version).
				Updates(map[string]any{
					"restaurant_id": next.RestaurantID,
					"version":       next.Version + 1,
					"updated_at":    now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrStaleCart
			}
			next.Version++
			next.UpdatedAt = now
			if err := tx.Where("cart_id = ?", next.ID).Delete(&entity.CartLine{}).Error; err != nil {
				return err
			}
		}

		if len(next.Lines) == 0 {
			return nil
		}
		for i := range next.Lines {
			next.Lines[i].ID = 0
			next.Lines[i].CartID = next.ID
			next.Lines[i].Position = i
		}
		return tx.Create(&next.Lines).Error
	})
	if err != nil {
		if errors.Is(err, ErrStaleCart) {
			return err
		}
		return apperr.ErrWriteFailed.Wrap(err)
	}

	*c = next
	return nil
}

// DeleteIdleBefore removes carts not written since cutoff.
func (r *CartRepository) DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&entity.Cart{}).Where("updated_at < ?", cutoff.UTC()).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("cart_id IN ?", ids).Delete(&entity.CartLine{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&entity.Cart{})
		removed = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, apperr.ErrWriteFailed.Wrap(err)
	}
	return removed, nil
}
