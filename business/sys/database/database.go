// Package database provides support for access the database.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Set of error variables for CRUD operations.
var (
	ErrDBNotFound        = errors.New("not found")
	ErrDBDuplicatedEntry = errors.New("duplicated entry")
	ErrUnknownDriver     = errors.New("unknown database driver")
)

// Config is the required properties to use the database.
type Config struct {
	Driver       string
	DSN          string
	MaxIdleConns int
	MaxOpenConns int
	Debug        bool
}

// Open knows how to open a database connection based on the configuration.
func Open(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB(): %w", err)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// StatusCheck returns nil if it can successfully talk to the database. It
// returns a non-nil error otherwise.
func StatusCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// First check we can ping the database.
	var pingError error
	for attempts := 1; ; attempts++ {
		pingError = sqlDB.PingContext(ctx)
		if pingError == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	// Make sure we didn't timeout or be cancelled.
	if ctx.Err() != nil {
		return ctx.Err()
	}

	// Run a simple query to determine connectivity. Running this query forces
	// a round trip through the database.
	var tmp bool
	return db.WithContext(ctx).Raw("SELECT true").Scan(&tmp).Error
}

// Migrate brings the schema for the provided models up to date.
func Migrate(ctx context.Context, log *zap.SugaredLogger, db *gorm.DB, models ...any) error {
	log.Infow("migrate", "status", "started", "models", len(models))

	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	log.Infow("migrate", "status", "completed")
	return nil
}

// Error translates a gorm error into one of the package errors so stores can
// report not found and duplicate entries without knowing the driver.
func Error(err error) error {
	switch {
	case err == nil:
		return nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrDBNotFound

	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDBDuplicatedEntry

	// Not every driver translates unique violations.
	case strings.Contains(strings.ToLower(err.Error()), "unique constraint"):
		return ErrDBDuplicatedEntry
	}

	return err
}
