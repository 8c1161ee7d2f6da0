package user

import (
	"encoding/json"
	"time"
)

// User represents an individual builder identified by their wallet.
type User struct {
	Address     string
	Role        Role
	BatchID     string
	BatchStatus BatchStatus
	EnsName     string
	EnsAvatar   string
	Socials     Socials
	Location    string
	OnchainData json.RawMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Socials holds the optional social handles a builder can publish.
type Socials struct {
	Telegram  string
	Twitter   string
	Github    string
	Email     string
	Instagram string
	Discord   string
	Website   string
}

// NewUser contains information needed to register a user.
type NewUser struct {
	Address string
}

// UpdateUser contains the admin controlled information of a user. Nil fields
// are left untouched.
type UpdateUser struct {
	Role        *Role
	BatchID     *string
	BatchStatus *BatchStatus
}

// UpdateProfile contains the information a user may change about themselves.
// Nil fields are left untouched.
type UpdateProfile struct {
	EnsName   *string
	EnsAvatar *string
	Socials   *Socials
	Location  *string
}
