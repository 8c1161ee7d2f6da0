// Package builddb contains build related CRUD functionality.
package builddb

import (
	"context"
	"errors"
	"fmt"

	"github.com/speedrunethereum/speedrun/business/core/build"
	"github.com/speedrunethereum/speedrun/business/sys/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store manages the set of APIs for build database access.
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

// Create inserts a new build into the database.
func (s *Store) Create(ctx context.Context, bld build.Build) error {
	dbBld := toDBBuild(bld)

	if err := s.db.WithContext(ctx).Create(&dbBld).Error; err != nil {
		return fmt.Errorf("inserting build: %w", database.Error(err))
	}

	return nil
}

// Update replaces a build document in the database.
func (s *Store) Update(ctx context.Context, bld build.Build) error {
	dbBld := toDBBuild(bld)

	res := s.db.WithContext(ctx).Model(&Build{}).Where("id = ?", dbBld.ID).Select("*").Omit("id", "submitted_at").Updates(&dbBld)
	if res.Error != nil {
		return fmt.Errorf("updating buildID[%s]: %w", bld.ID, database.Error(res.Error))
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("updating buildID[%s]: %w", bld.ID, build.ErrNotFound)
	}

	return nil
}

// Delete removes a build and its likes from the database.
func (s *Store) Delete(ctx context.Context, bld build.Build) error {
	f := func(tx *gorm.DB) error {
		if err := tx.Where("build_id = ?", bld.ID).Delete(&Like{}).Error; err != nil {
			return fmt.Errorf("deleting likes buildID[%s]: %w", bld.ID, err)
		}

		res := tx.Where("id = ?", bld.ID).Delete(&Build{})
		if res.Error != nil {
			return fmt.Errorf("deleting buildID[%s]: %w", bld.ID, res.Error)
		}

		if res.RowsAffected == 0 {
			return fmt.Errorf("deleting buildID[%s]: %w", bld.ID, build.ErrNotFound)
		}

		return nil
	}

	return s.db.WithContext(ctx).Transaction(f)
}

// Query retrieves a list of existing builds from the database.
func (s *Store) Query(ctx context.Context, filter build.QueryFilter, pageNumber int, rowsPerPage int) ([]build.Build, error) {
	q := s.db.WithContext(ctx).Model(&Build{})

	if filter.OwnerAddress != nil {
		q = q.Where("owner_address = ?", *filter.OwnerAddress)
	}
	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}
	if filter.Category != nil {
		q = q.Where("category = ?", *filter.Category)
	}
	if filter.BatchID != nil {
		q = q.Where("batch_id = ?", *filter.BatchID)
	}

	var dbBlds []Build
	err := q.Order("submitted_at DESC").
		Offset((pageNumber - 1) * rowsPerPage).
		Limit(rowsPerPage).
		Find(&dbBlds).Error
	if err != nil {
		return nil, fmt.Errorf("selecting builds: %w", database.Error(err))
	}

	if len(dbBlds) == 0 {
		return []build.Build{}, nil
	}

	ids := make([]string, len(dbBlds))
	for i, dbBld := range dbBlds {
		ids[i] = dbBld.ID
	}

	var likes []Like
	if err := s.db.WithContext(ctx).Where("build_id IN ?", ids).Order("created_at").Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("selecting likes: %w", database.Error(err))
	}

	byBuild := make(map[string][]string, len(dbBlds))
	for _, like := range likes {
		byBuild[like.BuildID] = append(byBuild[like.BuildID], like.UserAddress)
	}

	blds := make([]build.Build, len(dbBlds))
	for i, dbBld := range dbBlds {
		blds[i] = toCoreBuild(dbBld, byBuild[dbBld.ID])
	}

	return blds, nil
}

// QueryByID gets the specified build from the database.
func (s *Store) QueryByID(ctx context.Context, buildID string) (build.Build, error) {
	var dbBld Build
	if err := s.db.WithContext(ctx).Where("id = ?", buildID).First(&dbBld).Error; err != nil {
		if errors.Is(database.Error(err), database.ErrDBNotFound) {
			return build.Build{}, build.ErrNotFound
		}
		return build.Build{}, fmt.Errorf("selecting buildID[%q]: %w", buildID, err)
	}

	var likes []string
	if err := s.db.WithContext(ctx).Model(&Like{}).Where("build_id = ?", buildID).Order("created_at").Pluck("user_address", &likes).Error; err != nil {
		return build.Build{}, fmt.Errorf("selecting likes buildID[%q]: %w", buildID, err)
	}

	return toCoreBuild(dbBld, likes), nil
}

// AddLike inserts a like for the build.
func (s *Store) AddLike(ctx context.Context, like build.Like) error {
	dbLike := Like{
		BuildID:     like.BuildID,
		UserAddress: like.UserAddress,
		CreatedAt:   like.CreatedAt.UTC(),
	}

	if err := s.db.WithContext(ctx).Create(&dbLike).Error; err != nil {
		return fmt.Errorf("inserting like: %w", database.Error(err))
	}

	return nil
}

// RemoveLike deletes the like the address gave the build.
func (s *Store) RemoveLike(ctx context.Context, buildID string, address string) error {
	if err := s.db.WithContext(ctx).Where("build_id = ? AND user_address = ?", buildID, address).Delete(&Like{}).Error; err != nil {
		return fmt.Errorf("deleting like: %w", database.Error(err))
	}

	return nil
}

// HasLike reports whether the address likes the build.
func (s *Store) HasLike(ctx context.Context, buildID string, address string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Like{}).Where("build_id = ? AND user_address = ?", buildID, address).Count(&count).Error; err != nil {
		return false, fmt.Errorf("counting like: %w", database.Error(err))
	}

	return count > 0, nil
}
