package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/speedrunethereum/speedrun/business/data/schema"
	"github.com/speedrunethereum/speedrun/business/sys/database"
	"go.uber.org/zap"
)

// Migrate creates the schema in the database.
func Migrate(log *zap.SugaredLogger, cfg database.Config) error {
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

	fmt.Println("migrations complete")
	return nil
}
