package batch

import (
	"fmt"
	"time"
)

// Batch is a time-boxed cohort of builders.
type Batch struct {
	ID              string
	Name            string
	Slug            string
	StartDate       time.Time
	Status          Status
	TelegramLink    string
	ContractAddress string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBatch contains information needed to create a batch.
type NewBatch struct {
	Name            string
	StartDate       time.Time
	Status          Status
	TelegramLink    string
	ContractAddress string
}

// UpdateBatch contains information needed to update a batch. Nil fields are
// left untouched.
type UpdateBatch struct {
	Name            *string
	StartDate       *time.Time
	Status          *Status
	TelegramLink    *string
	ContractAddress *string
}

// =============================================================================

// Set of statuses a batch can be in.
var (
	StatusOpen   = Status{"open"}
	StatusClosed = Status{"closed"}
)

var statuses = map[string]Status{
	StatusOpen.name:   StatusOpen,
	StatusClosed.name: StatusClosed,
}

// Status represents whether a batch still accepts builders.
type Status struct {
	name string
}

// ParseStatus parses the string value and returns a status if one exists.
func ParseStatus(value string) (Status, error) {
	status, exists := statuses[value]
	if !exists {
		return Status{}, fmt.Errorf("invalid batch status %q", value)
	}

	return status, nil
}

// Name returns the name of the status.
func (s Status) Name() string {
	return s.name
}

// MarshalText implement the marshal interface for JSON conversions.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.name), nil
}
