// Package notedb contains note related CRUD functionality.
package notedb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/speedrunethereum/speedrun/business/core/note"
	"github.com/speedrunethereum/speedrun/business/sys/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Note represent the structure we need for moving data
// between the app and the database.
type Note struct {
	ID            string `gorm:"primaryKey;size:36"`
	AuthorAddress string `gorm:"size:42;not null"`
	TargetAddress string `gorm:"size:42;index;not null"`
	Comment       string `gorm:"not null"`
	CreatedAt     time.Time
}

// TableName overrides the table name used by gorm.
func (Note) TableName() string {
	return "user_notes"
}

// Store manages the set of APIs for note database access.
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

// Create inserts a new note into the database.
func (s *Store) Create(ctx context.Context, nt note.Note) error {
	dbNt := Note{
		ID:            nt.ID,
		AuthorAddress: nt.AuthorAddress,
		TargetAddress: nt.TargetAddress,
		Comment:       nt.Comment,
		CreatedAt:     nt.CreatedAt.UTC(),
	}

	if err := s.db.WithContext(ctx).Create(&dbNt).Error; err != nil {
		return fmt.Errorf("inserting note: %w", database.Error(err))
	}

	return nil
}

// Delete removes a note from the database.
func (s *Store) Delete(ctx context.Context, nt note.Note) error {
	res := s.db.WithContext(ctx).Where("id = ?", nt.ID).Delete(&Note{})
	if res.Error != nil {
		return fmt.Errorf("deleting noteID[%s]: %w", nt.ID, database.Error(res.Error))
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("deleting noteID[%s]: %w", nt.ID, note.ErrNotFound)
	}

	return nil
}

// QueryByTarget retrieves the notes about a user.
func (s *Store) QueryByTarget(ctx context.Context, address string) ([]note.Note, error) {
	var dbNts []Note
	if err := s.db.WithContext(ctx).Where("target_address = ?", address).Order("created_at DESC").Find(&dbNts).Error; err != nil {
		return nil, fmt.Errorf("selecting notes: %w", database.Error(err))
	}

	nts := make([]note.Note, len(dbNts))
	for i, dbNt := range dbNts {
		nts[i] = toCoreNote(dbNt)
	}

	return nts, nil
}

// QueryByID gets the specified note from the database.
func (s *Store) QueryByID(ctx context.Context, noteID string) (note.Note, error) {
	var dbNt Note
	if err := s.db.WithContext(ctx).Where("id = ?", noteID).First(&dbNt).Error; err != nil {
		if errors.Is(database.Error(err), database.ErrDBNotFound) {
			return note.Note{}, note.ErrNotFound
		}
		return note.Note{}, fmt.Errorf("selecting noteID[%q]: %w", noteID, err)
	}

	return toCoreNote(dbNt), nil
}

func toCoreNote(dbNt Note) note.Note {
	return note.Note{
		ID:            dbNt.ID,
		AuthorAddress: dbNt.AuthorAddress,
		TargetAddress: dbNt.TargetAddress,
		Comment:       dbNt.Comment,
		CreatedAt:     dbNt.CreatedAt.In(time.Local),
	}
}
