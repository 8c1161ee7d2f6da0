// Package auth provides the signature verification and authorization checks
// that gate every state changing request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/speedrunethereum/speedrun/business/core/build"
	"github.com/speedrunethereum/speedrun/business/core/user"
	"github.com/speedrunethereum/speedrun/foundation/eip712"
	"go.uber.org/zap"
)

// Set of errors the gate reports.
var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrForbidden        = errors.New("attempted action is not allowed")
)

// UserFinder provides the user lookups the predicates need.
type UserFinder interface {
	QueryByAddress(ctx context.Context, address string) (user.User, error)
}

// BuildFinder provides the build lookups the predicates need.
type BuildFinder interface {
	QueryByID(ctx context.Context, buildID string) (build.Build, error)
}

// Auth is used to authenticate signers and authorize their requests.
type Auth struct {
	log    *zap.SugaredLogger
	users  UserFinder
	builds BuildFinder
}

// New creates an Auth to support signature gated requests.
func New(log *zap.SugaredLogger, users UserFinder, builds BuildFinder) *Auth {
	return &Auth{
		log:    log,
		users:  users,
		builds: builds,
	}
}

// =============================================================================

// Request is a signed request for an operation.
type Request struct {
	Address   string
	Signature string
	Message   eip712.TypedData
	Rule      Rule
}

// Authorize runs the signature check and then the rule for the request. The
// error wraps ErrInvalidSignature or ErrForbidden.
func (a *Auth) Authorize(ctx context.Context, req Request) error {
	if !a.Verify(req.Message, req.Address, req.Signature) {
		return fmt.Errorf("%w: address[%s]", ErrInvalidSignature, req.Address)
	}

	if !a.allowed(ctx, req.Address, req.Rule) {
		return fmt.Errorf("%w: address[%s] rule[%s]", ErrForbidden, req.Address, req.Rule)
	}

	return nil
}

// Verify reports whether the claimed address produced the signature over the
// typed data. Recovery failures are logged and count as a mismatch.
func (a *Auth) Verify(td eip712.TypedData, claimed string, signature string) bool {
	addr, err := eip712.RecoverAddress(td, signature)
	if err != nil {
		a.log.Infow("auth", "status", "signature recovery failed", "address", claimed, "ERROR", err)
		return false
	}

	return strings.EqualFold(addr.Hex(), claimed)
}

func (a *Auth) allowed(ctx context.Context, address string, rule Rule) bool {
	switch rule.kind {
	case ruleAny:
		return true

	case ruleRegistered:
		return a.isRegistered(ctx, address)

	case ruleAdmin:
		return a.IsAdmin(ctx, address)

	case ruleSelfOrAdmin:
		return strings.EqualFold(rule.target, address) || a.IsAdmin(ctx, address)

	case ruleOwnerOrAdmin:
		return a.IsOwner(ctx, rule.target, address) || a.IsAdmin(ctx, address)

	case ruleBatchMember:
		return a.IsBatchMember(ctx, address, rule.target)
	}

	return false
}

// =============================================================================

// IsAdmin reports whether the address belongs to a user holding the admin
// role. An unknown address is never an admin.
func (a *Auth) IsAdmin(ctx context.Context, address string) bool {
	return isAdminRole(a.role(ctx, address))
}

// IsOwner reports whether the address owns the build. An unknown build has
// no owner.
func (a *Auth) IsOwner(ctx context.Context, buildID string, address string) bool {
	bld, err := a.builds.QueryByID(ctx, buildID)
	if err != nil {
		if !errors.Is(err, build.ErrNotFound) {
			a.log.Errorw("auth", "status", "owner lookup", "buildID", buildID, "ERROR", err)
		}
		return false
	}

	return strings.EqualFold(bld.OwnerAddress, address)
}

// IsBatchMember reports whether the address is assigned to the batch.
func (a *Auth) IsBatchMember(ctx context.Context, address string, batchID string) bool {
	usr, ok := a.lookup(ctx, address)
	if !ok || batchID == "" {
		return false
	}

	return usr.BatchID == batchID
}

func (a *Auth) isRegistered(ctx context.Context, address string) bool {
	switch a.role(ctx, address) {
	case user.RoleRegistered, user.RoleBuilder, user.RoleAdmin:
		return true
	case user.RoleAnonymous:
		return false
	}

	return false
}

// role returns the stored role of the address, anonymous when there is no
// such user.
func (a *Auth) role(ctx context.Context, address string) user.Role {
	usr, ok := a.lookup(ctx, address)
	if !ok {
		return user.RoleAnonymous
	}

	return usr.Role
}

func (a *Auth) lookup(ctx context.Context, address string) (user.User, bool) {
	usr, err := a.users.QueryByAddress(ctx, address)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) && !errors.Is(err, user.ErrInvalidAddress) {
			a.log.Errorw("auth", "status", "user lookup", "address", address, "ERROR", err)
		}
		return user.User{}, false
	}

	return usr, true
}

func isAdminRole(role user.Role) bool {
	switch role {
	case user.RoleAdmin:
		return true
	case user.RoleAnonymous, user.RoleRegistered, user.RoleBuilder:
		return false
	}

	return false
}
