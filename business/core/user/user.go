// Package user provides a core business API for the builders registered in
// the system.
package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Set of error variables for CRUD operations.
var (
	ErrNotFound       = errors.New("user not found")
	ErrInvalidAddress = errors.New("address is not properly formatted")
)

// Storer interface declares the behavior this package needs to persist and
// retrieve data.
type Storer interface {
	Create(ctx context.Context, usr User) error
	Update(ctx context.Context, usr User) error
	Query(ctx context.Context, filter QueryFilter, pageNumber int, rowsPerPage int) ([]User, error)
	Count(ctx context.Context, filter QueryFilter) (int, error)
	QueryByAddress(ctx context.Context, address string) (User, error)
}

// QueryFilter holds the available fields a query can be filtered on.
type QueryFilter struct {
	Role    *Role
	BatchID *string
}

// Core manages the set of APIs for user access.
type Core struct {
	storer Storer
}

// NewCore constructs a core for user api access.
func NewCore(storer Storer) *Core {
	return &Core{
		storer: storer,
	}
}

// Register creates the user for the address if it does not already exist.
// The boolean reports whether a new user was created.
func (c *Core) Register(ctx context.Context, nu NewUser, now time.Time) (User, bool, error) {
	address, err := NormalizeAddress(nu.Address)
	if err != nil {
		return User{}, false, err
	}

	usr, err := c.storer.QueryByAddress(ctx, address)
	switch {
	case err == nil:
		return usr, false, nil

	case !errors.Is(err, ErrNotFound):
		return User{}, false, fmt.Errorf("query: address[%s]: %w", address, err)
	}

	usr = User{
		Address:   address,
		Role:      RoleRegistered,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storer.Create(ctx, usr); err != nil {
		return User{}, false, fmt.Errorf("create: %w", err)
	}

	return usr, true, nil
}

// Update replaces the admin controlled fields of a user.
func (c *Core) Update(ctx context.Context, usr User, uu UpdateUser, now time.Time) (User, error) {
	if uu.Role != nil {
		usr.Role = *uu.Role
	}
	if uu.BatchID != nil {
		usr.BatchID = *uu.BatchID
	}
	if uu.BatchStatus != nil {
		usr.BatchStatus = *uu.BatchStatus
	}
	usr.UpdatedAt = now

	if err := c.storer.Update(ctx, usr); err != nil {
		return User{}, fmt.Errorf("update: %w", err)
	}

	return usr, nil
}

// UpdateProfile replaces the self managed fields of a user.
func (c *Core) UpdateProfile(ctx context.Context, usr User, up UpdateProfile, now time.Time) (User, error) {
	if up.EnsName != nil {
		usr.EnsName = *up.EnsName
	}
	if up.EnsAvatar != nil {
		usr.EnsAvatar = *up.EnsAvatar
	}
	if up.Socials != nil {
		usr.Socials = *up.Socials
	}
	if up.Location != nil {
		usr.Location = *up.Location
	}
	usr.UpdatedAt = now

	if err := c.storer.Update(ctx, usr); err != nil {
		return User{}, fmt.Errorf("update: %w", err)
	}

	return usr, nil
}

// UpdateOnchainData replaces the on-chain snapshot held for the user.
func (c *Core) UpdateOnchainData(ctx context.Context, usr User, data json.RawMessage, now time.Time) (User, error) {
	usr.OnchainData = data
	usr.UpdatedAt = now

	if err := c.storer.Update(ctx, usr); err != nil {
		return User{}, fmt.Errorf("update: %w", err)
	}

	return usr, nil
}

// Query retrieves a list of existing users from the database.
func (c *Core) Query(ctx context.Context, filter QueryFilter, pageNumber int, rowsPerPage int) ([]User, error) {
	users, err := c.storer.Query(ctx, filter, pageNumber, rowsPerPage)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return users, nil
}

// Count returns the total number of users matching the filter.
func (c *Core) Count(ctx context.Context, filter QueryFilter) (int, error) {
	return c.storer.Count(ctx, filter)
}

// QueryByAddress gets the specified user from the database.
func (c *Core) QueryByAddress(ctx context.Context, address string) (User, error) {
	address, err := NormalizeAddress(address)
	if err != nil {
		return User{}, err
	}

	usr, err := c.storer.QueryByAddress(ctx, address)
	if err != nil {
		return User{}, fmt.Errorf("query: address[%s]: %w", address, err)
	}

	return usr, nil
}

// =============================================================================

// NormalizeAddress validates a hex encoded wallet address and returns it in
// the lower case form used as the user key.
func NormalizeAddress(address string) (string, error) {
	if !common.IsHexAddress(address) || !strings.HasPrefix(strings.ToLower(address), "0x") {
		return "", ErrInvalidAddress
	}

	return strings.ToLower(address), nil
}
