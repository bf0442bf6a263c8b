package configs

import (
	"fmt"
	"strings"

	"foodcart/entity"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDatabase opens the store handle. The caller owns it and must call
// CloseDatabase on shutdown.
func OpenDatabase(source string, log zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn(source)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer; a single connection also keeps :memory: shared
	sqlDB.SetMaxOpenConns(1)

	log.Info().Str("source", source).Msg("database opened")
	return db, nil
}

func dsn(source string) string {
	if source == ":memory:" || strings.Contains(source, "?") {
		return source
	}
	return source + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}

func SetupDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Restaurant{}, &entity.MenuItem{},
		&entity.Cart{}, &entity.CartLine{},
	)
}

func CloseDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
