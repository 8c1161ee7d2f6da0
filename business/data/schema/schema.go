// Package schema contains the database schema, migrations and seeding data.
package schema

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/speedrunethereum/speedrun/business/core/batch"
	"github.com/speedrunethereum/speedrun/business/core/batch/stores/batchdb"
	"github.com/speedrunethereum/speedrun/business/core/build/stores/builddb"
	"github.com/speedrunethereum/speedrun/business/core/challenge/stores/challengedb"
	"github.com/speedrunethereum/speedrun/business/core/note/stores/notedb"
	"github.com/speedrunethereum/speedrun/business/core/user"
	"github.com/speedrunethereum/speedrun/business/core/user/stores/userdb"
	"github.com/speedrunethereum/speedrun/business/sys/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models returns the set of tables the service owns.
func Models() []any {
	return []any{
		&userdb.User{},
		&builddb.Build{},
		&builddb.Like{},
		&batchdb.Batch{},
		&notedb.Note{},
		&challengedb.Submission{},
	}
}

// Migrate attempts to bring the schema for db up to date.
func Migrate(ctx context.Context, log *zap.SugaredLogger, db *gorm.DB) error {
	if err := database.StatusCheck(ctx, db); err != nil {
		return fmt.Errorf("status check database: %w", err)
	}

	return database.Migrate(ctx, log, db, Models()...)
}

// Seed runs the set of seed-data queries against db. The first batch is
// created and the admin address is registered and promoted. Seeding an
// already seeded database leaves it unchanged.
func Seed(ctx context.Context, log *zap.SugaredLogger, db *gorm.DB, adminAddress string) error {
	now := time.Now().UTC()

	bchCore := batch.NewCore(batchdb.NewStore(log, db))
	if _, err := bchCore.Create(ctx, batch.NewBatch{
		Name:      "Batch 0",
		StartDate: now,
		Status:    batch.StatusOpen,
	}, now); err != nil && !errors.Is(err, batch.ErrNameExists) {
		return fmt.Errorf("seed batch: %w", err)
	}

	if _, err := Promote(ctx, log, db, adminAddress); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	return nil
}

// Promote registers the address if needed and gives it the admin role. The
// API never lets a user raise their own role, so the first admin is created
// through this path.
func Promote(ctx context.Context, log *zap.SugaredLogger, db *gorm.DB, address string) (user.User, error) {
	now := time.Now().UTC()

	usrCore := user.NewCore(userdb.NewStore(log, db))

	usr, _, err := usrCore.Register(ctx, user.NewUser{Address: address}, now)
	if err != nil {
		return user.User{}, fmt.Errorf("register: %w", err)
	}

	admin := user.RoleAdmin
	usr, err = usrCore.Update(ctx, usr, user.UpdateUser{Role: &admin}, now)
	if err != nil {
		return user.User{}, fmt.Errorf("promote: %w", err)
	}

	return usr, nil
}
