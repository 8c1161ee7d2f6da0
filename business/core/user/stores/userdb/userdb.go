// Package userdb contains user related CRUD functionality.
package userdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/speedrunethereum/speedrun/business/core/user"
	"github.com/speedrunethereum/speedrun/business/sys/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store manages the set of APIs for user database access.
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

// Create inserts a new user into the database.
func (s *Store) Create(ctx context.Context, usr user.User) error {
	dbUsr := toDBUser(usr)

	if err := s.db.WithContext(ctx).Create(&dbUsr).Error; err != nil {
		return fmt.Errorf("inserting user: %w", database.Error(err))
	}

	return nil
}

// Update replaces a user document in the database.
func (s *Store) Update(ctx context.Context, usr user.User) error {
	dbUsr := toDBUser(usr)

	res := s.db.WithContext(ctx).Model(&User{}).Where("address = ?", dbUsr.Address).Select("*").Omit("created_at").Updates(&dbUsr)
	if res.Error != nil {
		return fmt.Errorf("updating user address[%s]: %w", usr.Address, database.Error(res.Error))
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("updating user address[%s]: %w", usr.Address, user.ErrNotFound)
	}

	return nil
}

// Query retrieves a list of existing users from the database.
func (s *Store) Query(ctx context.Context, filter user.QueryFilter, pageNumber int, rowsPerPage int) ([]user.User, error) {
	q := applyFilter(s.db.WithContext(ctx).Model(&User{}), filter)

	var dbUsrs []User
	err := q.Order("created_at DESC").
		Offset((pageNumber - 1) * rowsPerPage).
		Limit(rowsPerPage).
		Find(&dbUsrs).Error
	if err != nil {
		return nil, fmt.Errorf("selecting users: %w", database.Error(err))
	}

	return toCoreUserSlice(dbUsrs), nil
}

// Count returns the total number of users matching the filter.
func (s *Store) Count(ctx context.Context, filter user.QueryFilter) (int, error) {
	q := applyFilter(s.db.WithContext(ctx).Model(&User{}), filter)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting users: %w", database.Error(err))
	}

	return int(count), nil
}

// QueryByAddress gets the specified user from the database.
func (s *Store) QueryByAddress(ctx context.Context, address string) (user.User, error) {
	var dbUsr User
	if err := s.db.WithContext(ctx).Where("address = ?", address).First(&dbUsr).Error; err != nil {
		if errors.Is(database.Error(err), database.ErrDBNotFound) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("selecting address[%q]: %w", address, err)
	}

	return toCoreUser(dbUsr), nil
}

// =============================================================================

func applyFilter(q *gorm.DB, filter user.QueryFilter) *gorm.DB {
	if filter.Role != nil {
		q = q.Where("role = ?", filter.Role.Name())
	}

	if filter.BatchID != nil {
		q = q.Where("batch_id = ?", *filter.BatchID)
	}

	return q
}
