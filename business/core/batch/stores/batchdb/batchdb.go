// Package batchdb contains batch related CRUD functionality.
package batchdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/speedrunethereum/speedrun/business/core/batch"
	"github.com/speedrunethereum/speedrun/business/sys/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Batch represent the structure we need for moving data
// between the app and the database.
type Batch struct {
	ID              string `gorm:"primaryKey;size:36"`
	Name            string `gorm:"not null"`
	Slug            string `gorm:"uniqueIndex;not null"`
	StartDate       time.Time
	Status          string `gorm:"size:16;not null"`
	TelegramLink    string
	ContractAddress string `gorm:"size:42"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides the table name used by gorm.
func (Batch) TableName() string {
	return "batches"
}

// Store manages the set of APIs for batch database access.
type Store struct {
	log *zap.SugaredLogger
	db  *gorm.DB
}

// NewStore constructs the api for data access.
func NewStore(log *zap.SugaredLogger, db *gorm.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// Create inserts a new batch into the database.
func (s *Store) Create(ctx context.Context, bch batch.Batch) error {
	dbBch := toDBBatch(bch)

	if err := s.db.WithContext(ctx).Create(&dbBch).Error; err != nil {
		err = database.Error(err)
		if errors.Is(err, database.ErrDBDuplicatedEntry) {
			return fmt.Errorf("inserting batch: %w", batch.ErrNameExists)
		}
		return fmt.Errorf("inserting batch: %w", err)
	}

	return nil
}

// Update replaces a batch document in the database.
func (s *Store) Update(ctx context.Context, bch batch.Batch) error {
	dbBch := toDBBatch(bch)

	res := s.db.WithContext(ctx).Model(&Batch{}).Where("id = ?", dbBch.ID).Select("*").Omit("id", "created_at").Updates(&dbBch)
	if err := database.Error(res.Error); err != nil {
		if errors.Is(err, database.ErrDBDuplicatedEntry) {
			return fmt.Errorf("updating batchID[%s]: %w", bch.ID, batch.ErrNameExists)
		}
		return fmt.Errorf("updating batchID[%s]: %w", bch.ID, err)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("updating batchID[%s]: %w", bch.ID, batch.ErrNotFound)
	}

	return nil
}

// Query retrieves a list of existing batches from the database.
func (s *Store) Query(ctx context.Context, pageNumber int, rowsPerPage int) ([]batch.Batch, error) {
	var dbBchs []Batch
	err := s.db.WithContext(ctx).
		Order("start_date DESC").
		Offset((pageNumber - 1) * rowsPerPage).
		Limit(rowsPerPage).
		Find(&dbBchs).Error
	if err != nil {
		return nil, fmt.Errorf("selecting batches: %w", database.Error(err))
	}

	bchs := make([]batch.Batch, len(dbBchs))
	for i, dbBch := range dbBchs {
		bchs[i] = toCoreBatch(dbBch)
	}

	return bchs, nil
}

// QueryByID gets the specified batch from the database.
func (s *Store) QueryByID(ctx context.Context, batchID string) (batch.Batch, error) {
	return s.queryOne(ctx, "id = ?", batchID)
}

// QueryBySlug gets the batch with the specified normalized name.
func (s *Store) QueryBySlug(ctx context.Context, slug string) (batch.Batch, error) {
	return s.queryOne(ctx, "slug = ?", slug)
}

func (s *Store) queryOne(ctx context.Context, where string, arg string) (batch.Batch, error) {
	var dbBch Batch
	if err := s.db.WithContext(ctx).Where(where, arg).First(&dbBch).Error; err != nil {
		if errors.Is(database.Error(err), database.ErrDBNotFound) {
			return batch.Batch{}, batch.ErrNotFound
		}
		return batch.Batch{}, fmt.Errorf("selecting batch[%q]: %w", arg, err)
	}

	return toCoreBatch(dbBch), nil
}

// =============================================================================

func toDBBatch(bch batch.Batch) Batch {
	return Batch{
		ID:              bch.ID,
		Name:            bch.Name,
		Slug:            bch.Slug,
		StartDate:       bch.StartDate.UTC(),
		Status:          bch.Status.Name(),
		TelegramLink:    bch.TelegramLink,
		ContractAddress: bch.ContractAddress,
		CreatedAt:       bch.CreatedAt.UTC(),
		UpdatedAt:       bch.UpdatedAt.UTC(),
	}
}

func toCoreBatch(dbBch Batch) batch.Batch {
	status, err := batch.ParseStatus(dbBch.Status)
	if err != nil {
		status = batch.StatusClosed
	}

	return batch.Batch{
		ID:              dbBch.ID,
		Name:            dbBch.Name,
		Slug:            dbBch.Slug,
		StartDate:       dbBch.StartDate.In(time.Local),
		Status:          status,
		TelegramLink:    dbBch.TelegramLink,
		ContractAddress: dbBch.ContractAddress,
		CreatedAt:       dbBch.CreatedAt.In(time.Local),
		UpdatedAt:       dbBch.UpdatedAt.In(time.Local),
	}
}
