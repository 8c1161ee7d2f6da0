// Package note provides a core business API for the annotations admins keep
// about builders.
package note

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/speedrunethereum/speedrun/business/sys/validate"
)

// ErrNotFound is returned when a note does not exist for the user.
var ErrNotFound = errors.New("note not found")

// Note is an admin authored comment attached to a user.
type Note struct {
	ID            string
	AuthorAddress string
	TargetAddress string
	Comment       string
	CreatedAt     time.Time
}

// NewNote contains information needed to create a note.
type NewNote struct {
	AuthorAddress string
	TargetAddress string
	Comment       string
}

// Storer interface declares the behavior this package needs to persist and
// retrieve data.
type Storer interface {
	Create(ctx context.Context, nt Note) error
	Delete(ctx context.Context, nt Note) error
	QueryByTarget(ctx context.Context, address string) ([]Note, error)
	QueryByID(ctx context.Context, noteID string) (Note, error)
}

// Core manages the set of APIs for note access.
type Core struct {
	storer Storer
}

// NewCore constructs a core for note api access.
func NewCore(storer Storer) *Core {
	return &Core{
		storer: storer,
	}
}

// Create adds a note to the target user.
func (c *Core) Create(ctx context.Context, nn NewNote, now time.Time) (Note, error) {
	nt := Note{
		ID:            validate.GenerateID(),
		AuthorAddress: strings.ToLower(nn.AuthorAddress),
		TargetAddress: strings.ToLower(nn.TargetAddress),
		Comment:       nn.Comment,
		CreatedAt:     now,
	}

	if err := c.storer.Create(ctx, nt); err != nil {
		return Note{}, fmt.Errorf("create: %w", err)
	}

	return nt, nil
}

// Delete removes the note.
func (c *Core) Delete(ctx context.Context, nt Note) error {
	if err := c.storer.Delete(ctx, nt); err != nil {
		return fmt.Errorf("delete: noteID[%s]: %w", nt.ID, err)
	}

	return nil
}

// QueryByTarget returns the notes written about the user, newest first.
func (c *Core) QueryByTarget(ctx context.Context, address string) ([]Note, error) {
	nts, err := c.storer.QueryByTarget(ctx, strings.ToLower(address))
	if err != nil {
		return nil, fmt.Errorf("query: address[%s]: %w", address, err)
	}

	return nts, nil
}

// QueryByID gets the note attached to the target user. A note that exists
// but belongs to a different user is reported as not found.
func (c *Core) QueryByID(ctx context.Context, address string, noteID string) (Note, error) {
	nt, err := c.storer.QueryByID(ctx, noteID)
	if err != nil {
		return Note{}, fmt.Errorf("query: noteID[%s]: %w", noteID, err)
	}

	if !strings.EqualFold(nt.TargetAddress, address) {
		return Note{}, fmt.Errorf("query: noteID[%s]: %w", noteID, ErrNotFound)
	}

	return nt, nil
}
