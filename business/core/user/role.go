package user

import "fmt"

// Set of possible roles for a user.
var (
	RoleAnonymous  = Role{"anonymous"}
	RoleRegistered = Role{"user"}
	RoleBuilder    = Role{"builder"}
	RoleAdmin      = Role{"admin"}
)

// Set of known roles.
var roles = map[string]Role{
	RoleAnonymous.name:  RoleAnonymous,
	RoleRegistered.name: RoleRegistered,
	RoleBuilder.name:    RoleBuilder,
	RoleAdmin.name:      RoleAdmin,
}

// Role represents a role in the system.
type Role struct {
	name string
}

// ParseRole parses the string value and returns a role if one exists.
func ParseRole(value string) (Role, error) {
	role, exists := roles[value]
	if !exists {
		return Role{}, fmt.Errorf("invalid role %q", value)
	}

	return role, nil
}

// Name returns the name of the role.
func (r Role) Name() string {
	return r.name
}

// UnmarshalText implement the unmarshal interface for JSON conversions.
func (r *Role) UnmarshalText(data []byte) error {
	role, err := ParseRole(string(data))
	if err != nil {
		return err
	}

	r.name = role.name
	return nil
}

// MarshalText implement the marshal interface for JSON conversions.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.name), nil
}

// Equal provides support for the go-cmp package and testing.
func (r Role) Equal(r2 Role) bool {
	return r.name == r2.name
}

// =============================================================================

// Set of possible states for a user inside a batch.
var (
	BatchCandidate = BatchStatus{"candidate"}
	BatchGraduate  = BatchStatus{"graduate"}
)

var batchStatuses = map[string]BatchStatus{
	BatchCandidate.name: BatchCandidate,
	BatchGraduate.name:  BatchGraduate,
}

// BatchStatus represents where a builder stands within their batch.
type BatchStatus struct {
	name string
}

// ParseBatchStatus parses the string value and returns a batch status if one
// exists.
func ParseBatchStatus(value string) (BatchStatus, error) {
	status, exists := batchStatuses[value]
	if !exists {
		return BatchStatus{}, fmt.Errorf("invalid batch status %q", value)
	}

	return status, nil
}

// Name returns the name of the batch status.
func (s BatchStatus) Name() string {
	return s.name
}

// IsZero reports whether no batch status has been set.
func (s BatchStatus) IsZero() bool {
	return s.name == ""
}

// MarshalText implement the marshal interface for JSON conversions.
func (s BatchStatus) MarshalText() ([]byte, error) {
	return []byte(s.name), nil
}
