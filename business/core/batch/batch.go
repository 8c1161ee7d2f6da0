// Package batch provides a core business API for the cohorts builders are
// grouped into.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gosimple/slug"

	"github.com/speedrunethereum/speedrun/business/sys/validate"
)

// Set of error variables for CRUD operations.
var (
	ErrNotFound    = errors.New("batch not found")
	ErrNameExists  = errors.New("batch name already exists")
	ErrInvalidName = errors.New("batch name is empty")
)

// Storer interface declares the behavior this package needs to persist and
// retrieve data.
type Storer interface {
	Create(ctx context.Context, bch Batch) error
	Update(ctx context.Context, bch Batch) error
	Query(ctx context.Context, pageNumber int, rowsPerPage int) ([]Batch, error)
	QueryByID(ctx context.Context, batchID string) (Batch, error)
	QueryBySlug(ctx context.Context, slug string) (Batch, error)
}

// Core manages the set of APIs for batch access.
type Core struct {
	storer Storer
}

// NewCore constructs a core for batch api access.
func NewCore(storer Storer) *Core {
	return &Core{
		storer: storer,
	}
}

// Create adds a batch. A batch whose name normalizes to the same slug as an
// existing batch is rejected before anything is written.
func (c *Core) Create(ctx context.Context, nb NewBatch, now time.Time) (Batch, error) {
	s := slug.Make(nb.Name)
	if s == "" {
		return Batch{}, ErrInvalidName
	}

	if err := c.checkName(ctx, s, ""); err != nil {
		return Batch{}, err
	}

	bch := Batch{
		ID:              validate.GenerateID(),
		Name:            nb.Name,
		Slug:            s,
		StartDate:       nb.StartDate,
		Status:          nb.Status,
		TelegramLink:    nb.TelegramLink,
		ContractAddress: nb.ContractAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := c.storer.Create(ctx, bch); err != nil {
		return Batch{}, fmt.Errorf("create: %w", err)
	}

	return bch, nil
}

// Update modifies information about a batch.
func (c *Core) Update(ctx context.Context, bch Batch, ub UpdateBatch, now time.Time) (Batch, error) {
	if ub.Name != nil {
		s := slug.Make(*ub.Name)
		if s == "" {
			return Batch{}, ErrInvalidName
		}

		if err := c.checkName(ctx, s, bch.ID); err != nil {
			return Batch{}, err
		}

		bch.Name = *ub.Name
		bch.Slug = s
	}
	if ub.StartDate != nil {
		bch.StartDate = *ub.StartDate
	}
	if ub.Status != nil {
		bch.Status = *ub.Status
	}
	if ub.TelegramLink != nil {
		bch.TelegramLink = *ub.TelegramLink
	}
	if ub.ContractAddress != nil {
		bch.ContractAddress = *ub.ContractAddress
	}
	bch.UpdatedAt = now

	if err := c.storer.Update(ctx, bch); err != nil {
		return Batch{}, fmt.Errorf("update: %w", err)
	}

	return bch, nil
}

// Query retrieves a list of existing batches from the database.
func (c *Core) Query(ctx context.Context, pageNumber int, rowsPerPage int) ([]Batch, error) {
	bchs, err := c.storer.Query(ctx, pageNumber, rowsPerPage)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return bchs, nil
}

// QueryByID gets the specified batch from the database.
func (c *Core) QueryByID(ctx context.Context, batchID string) (Batch, error) {
	bch, err := c.storer.QueryByID(ctx, batchID)
	if err != nil {
		return Batch{}, fmt.Errorf("query: batchID[%s]: %w", batchID, err)
	}

	return bch, nil
}

// checkName fails when another batch already owns the slug.
func (c *Core) checkName(ctx context.Context, s string, batchID string) error {
	existing, err := c.storer.QueryBySlug(ctx, s)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil

	case err != nil:
		return fmt.Errorf("query: slug[%s]: %w", s, err)

	case existing.ID == batchID:
		return nil
	}

	return fmt.Errorf("%w: %q", ErrNameExists, existing.Name)
}
