// Package dbtest contains supporting code for running tests that hit the DB.
package dbtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/speedrunethereum/speedrun/business/sys/database"
	"github.com/speedrunethereum/speedrun/foundation/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Success and failure markers.
const (
	Success = "✓"
	Failed  = "✗"
)

// NewUnit creates a private in-memory sqlite database with the provided
// models migrated. It returns the database to use as well as a function to
// call at the end of the test.
func NewUnit(t *testing.T, models ...any) (*zap.SugaredLogger, *gorm.DB, func()) {
	log, err := logger.New("TEST")
	if err != nil {
		t.Fatalf("logger error: %s", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	db, err := database.Open(database.Config{
		Driver:       "sqlite",
		DSN:          dsn,
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("Opening database connection error: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := database.StatusCheck(ctx, db); err != nil {
		t.Fatalf("status check database: %v", err)
	}

	if err := database.Migrate(ctx, log, db, models...); err != nil {
		t.Fatalf("Migrating error: %s", err)
	}

	// teardown is the function that should be invoked when the caller is done
	// with the database.
	teardown := func() {
		t.Helper()

		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		log.Sync()
	}

	return log, db, teardown
}
