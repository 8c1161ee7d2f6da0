package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/speedrunethereum/speedrun/business/data/schema"
	"github.com/speedrunethereum/speedrun/business/sys/database"
	"go.uber.org/zap"
)

// Seed migrates the database and loads the first batch and admin.
func Seed(log *zap.SugaredLogger, cfg database.Config, adminAddress string) error {
	if adminAddress == "" {
		fmt.Println("help: seed <address>")
		return ErrHelp
	}

	db, closeFn, err := open(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := schema.Migrate(ctx, log, db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	if err := schema.Seed(ctx, log, db, adminAddress); err != nil {
		return fmt.Errorf("seed database: %w", err)
	}

	fmt.Println("seed data complete")
	return nil
}
