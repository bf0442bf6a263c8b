package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"foodcart/entity"
	"foodcart/pkg/cache"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type CatalogReader interface {
	ListActiveRestaurants(ctx context.Context, limit int) ([]entity.Restaurant, error)
	ListAvailableMenuItems(ctx context.Context, limit int) ([]entity.MenuItem, error)
	FindRestaurant(ctx context.Context, id uint) (*entity.Restaurant, error)
	ListMenuItemsByRestaurant(ctx context.Context, restaurantID uint) ([]entity.MenuItem, error)
}

// CatalogService serves catalog reads. The two front-page lists go through
// a read-through cache; lookups by id always hit the store.
type CatalogService struct {
	Repo  CatalogReader
	Cache cache.Cache // nil disables caching
	TTL   time.Duration
	Log   zerolog.Logger

	RestaurantLimit int
	MenuItemLimit   int

	group singleflight.Group
}

func NewCatalogService(repo CatalogReader, c cache.Cache, ttl time.Duration, restaurantLimit, menuItemLimit int, log zerolog.Logger) *CatalogService {
	if ttl <= 0 {
		c = nil
	}
	return &CatalogService{
		Repo: repo, Cache: c, TTL: ttl, Log: log,
		RestaurantLimit: restaurantLimit, MenuItemLimit: menuItemLimit,
	}
}

func (s *CatalogService) ListRestaurants(ctx context.Context) ([]entity.Restaurant, error) {
	return cachedList(ctx, s, "restaurants", s.RestaurantLimit, s.Repo.ListActiveRestaurants)
}

func (s *CatalogService) ListMenuItems(ctx context.Context) ([]entity.MenuItem, error) {
	return cachedList(ctx, s, "menu-items", s.MenuItemLimit, s.Repo.ListAvailableMenuItems)
}

func (s *CatalogService) GetRestaurant(ctx context.Context, id uint) (*entity.Restaurant, error) {
	return s.Repo.FindRestaurant(ctx, id)
}

// RestaurantMenu lists the available items of a restaurant that exists.
func (s *CatalogService) RestaurantMenu(ctx context.Context, restaurantID uint) ([]entity.MenuItem, error) {
	if _, err := s.Repo.FindRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	return s.Repo.ListMenuItemsByRestaurant(ctx, restaurantID)
}

func cachedList[T any](ctx context.Context, s *CatalogService, op string, limit int,
	load func(context.Context, int) ([]T, error)) ([]T, error) {
	if s.Cache == nil {
		return load(ctx, limit)
	}

	key := cache.Key("catalog", op, strconv.Itoa(limit))
	if b, err := s.Cache.Get(ctx, key); err == nil {
		var out []T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		s.Log.Warn().Str("key", key).Msg("dropping undecodable cache entry")
	} else if !errors.Is(err, cache.ErrMiss) {
		s.Log.Warn().Err(err).Str("key", key).Msg("catalog cache get failed")
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// shared by every caller collapsed onto key
		loadCtx := context.WithoutCancel(ctx)
		out, err := load(loadCtx, limit)
		if err != nil {
			return nil, err
		}
		if b, err := json.Marshal(out); err == nil {
			if err := s.Cache.Set(loadCtx, key, b, s.TTL); err != nil {
				s.Log.Warn().Err(err).Str("key", key).Msg("catalog cache set failed")
			}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]T), nil
}
