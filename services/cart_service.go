package services

import (
	"context"
	"errors"

	"foodcart/entity"
	"foodcart/pkg/apperr"
	"foodcart/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	ErrCartNotFound               = repository.ErrCartNotFound
	ErrLineNotFound               = apperr.New(apperr.KindNotFound, "line_not_found", "item is not in the cart")
	ErrCrossRestaurantConflict    = apperr.New(apperr.KindConflict, "cross_restaurant_conflict", "cart already holds items from another restaurant")
	ErrMenuItemRestaurantMismatch = apperr.New(apperr.KindInvalid, "menu_item_restaurant_mismatch", "menu item does not belong to this restaurant")
)

type CartStore interface {
	FindCartByUser(ctx context.Context, userID string) (*entity.Cart, error)
	Save(ctx context.Context, c *entity.Cart) error
}

type MenuLookup interface {
	FindMenuItem(ctx context.Context, id uint) (*entity.MenuItem, error)
	FindMenuItemsByIDs(ctx context.Context, ids []uint) (map[uint]entity.MenuItem, error)
}

// CartNotifier is told about every committed cart change.
type CartNotifier interface {
	CartChanged(userID string, cart *CartView)
}

type CartService struct {
	Carts    CartStore
	Menu     MenuLookup
	Notifier CartNotifier
	Log      zerolog.Logger

	// MaxAttempts bounds read-modify-write retries on a stale save.
	MaxAttempts int
}

func NewCartService(carts CartStore, menu MenuLookup, notifier CartNotifier, maxAttempts int, log zerolog.Logger) *CartService {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &CartService{Carts: carts, Menu: menu, Notifier: notifier, MaxAttempts: maxAttempts, Log: log}
}

type AddToCartIn struct {
	RestaurantID uint
	MenuItemID   uint
	Quantity     int
	Price        decimal.Decimal // snapshot taken by the caller at add time
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*CartView, error) {
	c, err := s.Carts.FindCartByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, c)
}

// AddItem merges quantity into the line for the menu item, creating the cart
// on first use. A cart scoped to another restaurant is left untouched, even
// when it has no lines.
func (s *CartService) AddItem(ctx context.Context, userID string, in AddToCartIn) (*CartView, error) {
	item, err := s.Menu.FindMenuItem(ctx, in.MenuItemID)
	if err != nil {
		return nil, err
	}
	if item.RestaurantID != in.RestaurantID {
		return nil, ErrMenuItemRestaurantMismatch
	}

	c, changed, err := s.mutate(ctx, userID, func(c *entity.Cart) (*entity.Cart, bool, error) {
		if c == nil {
			c = &entity.Cart{UserID: userID, RestaurantID: in.RestaurantID}
		}
		if c.RestaurantID != in.RestaurantID {
			return nil, false, ErrCrossRestaurantConflict
		}

		i := c.Line(in.MenuItemID)
		switch {
		case i >= 0:
			c.Lines[i].Quantity += in.Quantity
			if c.Lines[i].Quantity <= 0 {
				c.Lines = removeLine(c.Lines, i)
			}
		case in.Quantity > 0:
			c.Lines = append(c.Lines, entity.CartLine{
				MenuItemID: in.MenuItemID,
				Quantity:   in.Quantity,
				Price:      in.Price,
			})
		default:
			// nothing to add and nothing to merge into
			return c, false, nil
		}
		return c, true, nil
	})
	if err != nil {
		return nil, err
	}
	return s.committed(ctx, c, changed), nil
}

// UpdateQuantity sets the line's quantity; zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, menuItemID uint, quantity int) (*CartView, error) {
	c, changed, err := s.mutate(ctx, userID, func(c *entity.Cart) (*entity.Cart, bool, error) {
		if c == nil {
			return nil, false, ErrCartNotFound
		}
		i := c.Line(menuItemID)
		if i < 0 {
			return nil, false, ErrLineNotFound
		}
		if quantity <= 0 {
			c.Lines = removeLine(c.Lines, i)
		} else {
			c.Lines[i].Quantity = quantity
		}
		return c, true, nil
	})
	if err != nil {
		return nil, err
	}
	return s.committed(ctx, c, changed), nil
}

// RemoveItem drops the line if present. Removing an absent item succeeds.
func (s *CartService) RemoveItem(ctx context.Context, userID string, menuItemID uint) (*CartView, error) {
	c, changed, err := s.mutate(ctx, userID, func(c *entity.Cart) (*entity.Cart, bool, error) {
		if c == nil {
			return nil, false, ErrCartNotFound
		}
		i := c.Line(menuItemID)
		if i < 0 {
			return c, false, nil
		}
		c.Lines = removeLine(c.Lines, i)
		return c, true, nil
	})
	if err != nil {
		return nil, err
	}
	return s.committed(ctx, c, changed), nil
}

// ClearCart empties the cart but keeps it.
func (s *CartService) ClearCart(ctx context.Context, userID string) (*CartView, error) {
	c, changed, err := s.mutate(ctx, userID, func(c *entity.Cart) (*entity.Cart, bool, error) {
		if c == nil {
			return nil, false, ErrCartNotFound
		}
		if len(c.Lines) == 0 {
			return c, false, nil
		}
		c.Lines = nil
		return c, true, nil
	})
	if err != nil {
		return nil, err
	}
	return s.committed(ctx, c, changed), nil
}

type cartMutation func(c *entity.Cart) (next *entity.Cart, changed bool, err error)

// mutate runs read, apply, conditional save. A stale save re-reads and
// re-applies until MaxAttempts is reached.
func (s *CartService) mutate(ctx context.Context, userID string, apply cartMutation) (*entity.Cart, bool, error) {
	for attempt := 1; ; attempt++ {
		c, err := s.Carts.FindCartByUser(ctx, userID)
		if errors.Is(err, ErrCartNotFound) {
			c, err = nil, nil
		}
		if err != nil {
			s.Log.Error().Err(err).Str("user_id", userID).Msg("cart read failed")
			return nil, false, err
		}

		next, changed, err := apply(c)
		if err != nil {
			return nil, false, err
		}
		if !changed {
			return next, false, nil
		}

		err = s.Carts.Save(ctx, next)
		if err == nil {
			return next, true, nil
		}
		if !errors.Is(err, repository.ErrStaleCart) {
			s.Log.Error().Err(err).Str("user_id", userID).Msg("cart write failed")
			return nil, false, err
		}
		if attempt >= s.MaxAttempts {
			s.Log.Warn().Str("user_id", userID).Int("attempts", attempt).Msg("cart write gave up on concurrent updates")
			return nil, false, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, ctxErr
		}
		s.Log.Debug().Str("user_id", userID).Int("attempt", attempt).Msg("stale cart, retrying")
	}
}

// committed expands the cart and fans it out when it was written. A failed
// catalog read only loses the menu details.
func (s *CartService) committed(ctx context.Context, c *entity.Cart, changed bool) *CartView {
	v, err := s.expand(ctx, c)
	if err != nil {
		s.Log.Warn().Err(err).Str("user_id", c.UserID).Msg("cart saved but menu expansion failed")
		v = NewCartView(c, nil)
	}
	if changed && s.Notifier != nil {
		s.Notifier.CartChanged(c.UserID, v)
	}
	return v
}

func (s *CartService) expand(ctx context.Context, c *entity.Cart) (*CartView, error) {
	ids := make([]uint, 0, len(c.Lines))
	for _, l := range c.Lines {
		ids = append(ids, l.MenuItemID)
	}
	items, err := s.Menu.FindMenuItemsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return NewCartView(c, items), nil
}

func removeLine(lines []entity.CartLine, i int) []entity.CartLine {
	return append(lines[:i], lines[i+1:]...)
}
