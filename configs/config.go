package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBSource string

	LogLevel  string
	LogFormat string

	AllowOrigins  []string
	AuthJWTSecret string

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CatalogCacheTTL  time.Duration
	CatalogCacheSize int

	RestaurantListLimit int
	MenuItemListLimit   int

	CartWriteRetries  int
	CartTTL           time.Duration
	CartSweepInterval time.Duration

	SeedCatalog     bool
	ShutdownTimeout time.Duration
}

// LoadConfig reads .env (if present) and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the environment only.
func FromEnv() (*Config, error) {
	p := &envParser{}
	cfg := &Config{
		Port:     getEnv("PORT", "8000"),
		DBSource: getEnv("DB_SOURCE", "foodcart.db"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		AllowOrigins:  splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
		AuthJWTSecret: os.Getenv("AUTH_JWT_SECRET"),

		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          p.intVar("REDIS_DB", 0),
		CatalogCacheTTL:  p.durationVar("CATALOG_CACHE_TTL", 30*time.Second),
		CatalogCacheSize: p.intVar("CATALOG_CACHE_SIZE", 128),

		RestaurantListLimit: p.intVar("RESTAURANT_LIST_LIMIT", 6),
		MenuItemListLimit:   p.intVar("MENU_ITEM_LIST_LIMIT", 8),

		CartWriteRetries:  p.intVar("CART_WRITE_RETRIES", 5),
		CartTTL:           p.durationVar("CART_TTL", 0),
		CartSweepInterval: p.durationVar("CART_SWEEP_INTERVAL", time.Hour),

		SeedCatalog:     p.boolVar("SEED_CATALOG", false),
		ShutdownTimeout: p.durationVar("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if p.err != nil {
		return nil, p.err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.RestaurantListLimit <= 0:
		return errors.New("RESTAURANT_LIST_LIMIT must be positive")
	case c.MenuItemListLimit <= 0:
		return errors.New("MENU_ITEM_LIST_LIMIT must be positive")
	case c.CartWriteRetries <= 0:
		return errors.New("CART_WRITE_RETRIES must be positive")
	case c.CartTTL < 0:
		return errors.New("CART_TTL must not be negative")
	case c.CartTTL > 0 && c.CartSweepInterval <= 0:
		return errors.New("CART_SWEEP_INTERVAL must be positive when CART_TTL is set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// envParser keeps the first parse error so FromEnv reads like a table.
type envParser struct{ err error }

func (p *envParser) intVar(key string, fallback int) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return n
}

func (p *envParser) boolVar(key string, fallback bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return b
}

func (p *envParser) durationVar(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return d
}

func (p *envParser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
}
