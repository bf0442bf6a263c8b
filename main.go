package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"foodcart/configs"
	"foodcart/pkg/cache"
	"foodcart/pkg/logger"
	"foodcart/repository"
	"foodcart/routes"
	"foodcart/services"
	"foodcart/ws"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "foodcart:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := configs.OpenDatabase(cfg.DBSource, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := configs.CloseDatabase(db); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()
	if err := configs.SetupDatabase(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if cfg.SeedCatalog {
		seeded, err := configs.SeedCatalog(db)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		if seeded {
			log.Info().Msg("demo catalog seeded")
		}
	}

	// Catalog cache
	catalogCache, err := newCatalogCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer catalogCache.Close()

	catalogRepo := repository.NewCatalogRepository(db)
	cartRepo := repository.NewCartRepository(db)
	hub := ws.NewCartHub(cfg.AllowOrigins, log)

	catalogSvc := services.NewCatalogService(catalogRepo, catalogCache, cfg.CatalogCacheTTL,
		cfg.RestaurantListLimit, cfg.MenuItemListLimit, log)
	cartSvc := services.NewCartService(cartRepo, catalogRepo, hub, cfg.CartWriteRetries, log)

	// HTTP
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: routes.NewRouter(cfg, log, catalogSvc, cartSvc, hub),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gctx) })
	if cfg.CartTTL > 0 {
		sweeper := services.NewCartSweeper(cartRepo, cfg.CartTTL, cfg.CartSweepInterval, log)
		g.Go(func() error { return sweeper.Run(gctx) })
	}
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newCatalogCache(ctx context.Context, cfg *configs.Config, log zerolog.Logger) (cache.Cache, error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryCache(cfg.CatalogCacheSize, cfg.CatalogCacheTTL), nil
	}
	c := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := cache.Ping(ctx, c); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("catalog cache on redis")
	return c, nil
}
