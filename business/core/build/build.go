// Package build provides a core business API for the community builds
// showcase and the likes builders give them.
package build

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/speedrunethereum/speedrun/business/sys/validate"
)

// Set of error variables for CRUD operations.
var (
	ErrNotFound        = errors.New("build not found")
	ErrInvalidType     = errors.New("invalid build type")
	ErrInvalidCategory = errors.New("invalid build category")
)

// Storer interface declares the behavior this package needs to persist and
// retrieve data.
type Storer interface {
	Create(ctx context.Context, bld Build) error
	Update(ctx context.Context, bld Build) error
	Delete(ctx context.Context, bld Build) error
	Query(ctx context.Context, filter QueryFilter, pageNumber int, rowsPerPage int) ([]Build, error)
	QueryByID(ctx context.Context, buildID string) (Build, error)
	AddLike(ctx context.Context, like Like) error
	RemoveLike(ctx context.Context, buildID string, address string) error
	HasLike(ctx context.Context, buildID string, address string) (bool, error)
}

// QueryFilter holds the available fields a query can be filtered on.
type QueryFilter struct {
	OwnerAddress *string
	Type         *string
	Category     *string
	BatchID      *string
}

// Core manages the set of APIs for build access.
type Core struct {
	storer Storer
}

// NewCore constructs a core for build api access.
func NewCore(storer Storer) *Core {
	return &Core{
		storer: storer,
	}
}

// Create submits a new build for the owner.
func (c *Core) Create(ctx context.Context, nb NewBuild, now time.Time) (Build, error) {
	if err := checkKind(nb.Type, nb.Category); err != nil {
		return Build{}, err
	}

	bld := Build{
		ID:           validate.GenerateID(),
		OwnerAddress: strings.ToLower(nb.OwnerAddress),
		Name:         nb.Name,
		Description:  nb.Description,
		Type:         nb.Type,
		Category:     nb.Category,
		DemoURL:      nb.DemoURL,
		VideoURL:     nb.VideoURL,
		ImageURL:     nb.ImageURL,
		GithubURL:    nb.GithubURL,
		CoBuilders:   lower(nb.CoBuilders),
		BatchID:      nb.BatchID,
		SubmittedAt:  now,
		UpdatedAt:    now,
	}

	if err := c.storer.Create(ctx, bld); err != nil {
		return Build{}, fmt.Errorf("create: %w", err)
	}

	return bld, nil
}

// Update modifies information about a build.
func (c *Core) Update(ctx context.Context, bld Build, ub UpdateBuild, now time.Time) (Build, error) {
	if ub.Name != nil {
		bld.Name = *ub.Name
	}
	if ub.Description != nil {
		bld.Description = *ub.Description
	}
	if ub.Type != nil {
		bld.Type = *ub.Type
	}
	if ub.Category != nil {
		bld.Category = *ub.Category
	}
	if ub.DemoURL != nil {
		bld.DemoURL = *ub.DemoURL
	}
	if ub.VideoURL != nil {
		bld.VideoURL = *ub.VideoURL
	}
	if ub.ImageURL != nil {
		bld.ImageURL = *ub.ImageURL
	}
	if ub.GithubURL != nil {
		bld.GithubURL = *ub.GithubURL
	}
	if ub.CoBuilders != nil {
		bld.CoBuilders = lower(ub.CoBuilders)
	}
	bld.UpdatedAt = now

	if err := checkKind(bld.Type, bld.Category); err != nil {
		return Build{}, err
	}

	if err := c.storer.Update(ctx, bld); err != nil {
		return Build{}, fmt.Errorf("update: %w", err)
	}

	return bld, nil
}

// Delete removes the build and every like it received.
func (c *Core) Delete(ctx context.Context, bld Build) error {
	if err := c.storer.Delete(ctx, bld); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}

// Query retrieves a list of existing builds from the database.
func (c *Core) Query(ctx context.Context, filter QueryFilter, pageNumber int, rowsPerPage int) ([]Build, error) {
	blds, err := c.storer.Query(ctx, filter, pageNumber, rowsPerPage)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return blds, nil
}

// QueryByID gets the specified build from the database.
func (c *Core) QueryByID(ctx context.Context, buildID string) (Build, error) {
	bld, err := c.storer.QueryByID(ctx, buildID)
	if err != nil {
		return Build{}, fmt.Errorf("query: buildID[%s]: %w", buildID, err)
	}

	return bld, nil
}

// =============================================================================

// IsLiked reports whether the address currently likes the build.
func (c *Core) IsLiked(ctx context.Context, buildID string, address string) (bool, error) {
	liked, err := c.storer.HasLike(ctx, buildID, strings.ToLower(address))
	if err != nil {
		return false, fmt.Errorf("haslike: buildID[%s]: %w", buildID, err)
	}

	return liked, nil
}

// Like records the address liking the build.
func (c *Core) Like(ctx context.Context, buildID string, address string, now time.Time) error {
	like := Like{
		BuildID:     buildID,
		UserAddress: strings.ToLower(address),
		CreatedAt:   now,
	}

	if err := c.storer.AddLike(ctx, like); err != nil {
		return fmt.Errorf("like: buildID[%s]: %w", buildID, err)
	}

	return nil
}

// Unlike removes the like the address gave the build.
func (c *Core) Unlike(ctx context.Context, buildID string, address string) error {
	if err := c.storer.RemoveLike(ctx, buildID, strings.ToLower(address)); err != nil {
		return fmt.Errorf("unlike: buildID[%s]: %w", buildID, err)
	}

	return nil
}

// =============================================================================

func checkKind(typ string, category string) error {
	if !slices.Contains(Types, typ) {
		return fmt.Errorf("%w: %q", ErrInvalidType, typ)
	}

	if category != "" && !slices.Contains(Categories, category) {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	return nil
}

func lower(addresses []string) []string {
	out := make([]string, len(addresses))
	for i, a := range addresses {
		out[i] = strings.ToLower(a)
	}
	return out
}
