package auth_test

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/speedrunethereum/speedrun/business/core/build"
	"github.com/speedrunethereum/speedrun/business/core/user"
	"github.com/speedrunethereum/speedrun/business/sys/auth"
	"github.com/speedrunethereum/speedrun/business/sys/messages"
	"github.com/speedrunethereum/speedrun/foundation/eip712"
	"github.com/speedrunethereum/speedrun/foundation/logger"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const (
	adminKey   = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	adminAddr  = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
	builderKey = "8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"
	registered = "0xf01813e4b85e178a83e29b8e7bf26bd830a25f32"
	stranger   = "0x1111111111111111111111111111111111111111"
)

type users map[string]user.User

func (u users) QueryByAddress(ctx context.Context, address string) (user.User, error) {
	usr, exists := u[strings.ToLower(address)]
	if !exists {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

type builds map[string]build.Build

func (b builds) QueryByID(ctx context.Context, buildID string) (build.Build, error) {
	bld, exists := b[buildID]
	if !exists {
		return build.Build{}, build.ErrNotFound
	}
	return bld, nil
}

func newAuth(t *testing.T) (*auth.Auth, string) {
	log, err := logger.New("TEST")
	if err != nil {
		t.Fatalf("Should be able to construct a logger: %s", err)
	}

	pk, err := crypto.HexToECDSA(builderKey)
	if err != nil {
		t.Fatalf("Should be able to load the builder key: %s", err)
	}
	builderAddr := strings.ToLower(crypto.PubkeyToAddress(pk.PublicKey).Hex())

	us := users{
		strings.ToLower(adminAddr): {Address: strings.ToLower(adminAddr), Role: user.RoleAdmin},
		builderAddr:                {Address: builderAddr, Role: user.RoleBuilder, BatchID: "batch-1"},
		registered:                 {Address: registered, Role: user.RoleRegistered},
	}

	bs := builds{
		"build-1": {ID: "build-1", OwnerAddress: builderAddr},
	}

	return auth.New(log, us, bs), builderAddr
}

func Test_Predicates(t *testing.T) {
	a, builderAddr := newAuth(t)
	ctx := context.Background()

	t.Log("Given the need to check authorization predicates.")
	{
		if !a.IsAdmin(ctx, adminAddr) {
			t.Fatalf("\t%s\tShould see the admin as admin.", failed)
		}
		if a.IsAdmin(ctx, builderAddr) || a.IsAdmin(ctx, registered) {
			t.Fatalf("\t%s\tShould not see a non admin role as admin.", failed)
		}
		if a.IsAdmin(ctx, stranger) || a.IsAdmin(ctx, "garbage") {
			t.Fatalf("\t%s\tShould not see an unknown address as admin.", failed)
		}
		t.Logf("\t%s\tShould check the admin role.", success)

		if !a.IsOwner(ctx, "build-1", strings.ToUpper(builderAddr)) {
			t.Fatalf("\t%s\tShould see the builder as owner.", failed)
		}
		if a.IsOwner(ctx, "build-1", adminAddr) {
			t.Fatalf("\t%s\tShould not see the admin as owner.", failed)
		}
		if a.IsOwner(ctx, "build-2", builderAddr) {
			t.Fatalf("\t%s\tShould not see an owner for an unknown build.", failed)
		}
		t.Logf("\t%s\tShould check build ownership.", success)

		if !a.IsBatchMember(ctx, builderAddr, "batch-1") {
			t.Fatalf("\t%s\tShould see the builder in the batch.", failed)
		}
		if a.IsBatchMember(ctx, builderAddr, "batch-2") || a.IsBatchMember(ctx, stranger, "batch-1") || a.IsBatchMember(ctx, registered, "") {
			t.Fatalf("\t%s\tShould not see membership of other batches.", failed)
		}
		t.Logf("\t%s\tShould check batch membership.", success)
	}
}

func Test_Authorize(t *testing.T) {
	a, builderAddr := newAuth(t)
	ctx := context.Background()

	adminPK, err := crypto.HexToECDSA(adminKey)
	if err != nil {
		t.Fatalf("Should be able to load the admin key: %s", err)
	}
	builderPK, err := crypto.HexToECDSA(builderKey)
	if err != nil {
		t.Fatalf("Should be able to load the builder key: %s", err)
	}

	sign := func(td eip712.TypedData, pk *ecdsa.PrivateKey) string {
		sig, err := eip712.Sign(td, pk)
		if err != nil {
			t.Fatalf("Should be able to sign: %s", err)
		}
		return sig
	}

	deleteMsg := func(address string, buildID string) eip712.TypedData {
		return messages.DeleteBuild.TypedData(map[string]any{"address": address, "buildId": buildID})
	}

	tt := []struct {
		name    string
		req     auth.Request
		wantErr error
	}{
		{
			name: "owner",
			req: auth.Request{
				Address:   builderAddr,
				Signature: sign(deleteMsg(builderAddr, "build-1"), builderPK),
				Message:   deleteMsg(builderAddr, "build-1"),
				Rule:      auth.RuleOwnerOrAdmin("build-1"),
			},
		},
		{
			name: "admin",
			req: auth.Request{
				Address:   adminAddr,
				Signature: sign(deleteMsg(adminAddr, "build-1"), adminPK),
				Message:   deleteMsg(adminAddr, "build-1"),
				Rule:      auth.RuleOwnerOrAdmin("build-1"),
			},
		},
		{
			name: "replay",
			req: auth.Request{
				Address:   builderAddr,
				Signature: sign(deleteMsg(builderAddr, "build-1"), builderPK),
				Message:   deleteMsg(builderAddr, "build-2"),
				Rule:      auth.RuleOwnerOrAdmin("build-2"),
			},
			wantErr: auth.ErrInvalidSignature,
		},
		{
			name: "impersonate",
			req: auth.Request{
				Address:   adminAddr,
				Signature: sign(deleteMsg(adminAddr, "build-1"), builderPK),
				Message:   deleteMsg(adminAddr, "build-1"),
				Rule:      auth.RuleAdmin,
			},
			wantErr: auth.ErrInvalidSignature,
		},
		{
			name: "malformed",
			req: auth.Request{
				Address:   builderAddr,
				Signature: "0xdeadbeef",
				Message:   deleteMsg(builderAddr, "build-1"),
				Rule:      auth.RuleAny,
			},
			wantErr: auth.ErrInvalidSignature,
		},
		{
			name: "notadmin",
			req: auth.Request{
				Address:   builderAddr,
				Signature: sign(deleteMsg(builderAddr, "build-1"), builderPK),
				Message:   deleteMsg(builderAddr, "build-1"),
				Rule:      auth.RuleAdmin,
			},
			wantErr: auth.ErrForbidden,
		},
		{
			name: "self",
			req: auth.Request{
				Address:   builderAddr,
				Signature: sign(deleteMsg(builderAddr, "x"), builderPK),
				Message:   deleteMsg(builderAddr, "x"),
				Rule:      auth.RuleSelfOrAdmin(strings.ToUpper(builderAddr)),
			},
		},
		{
			name: "other",
			req: auth.Request{
				Address:   builderAddr,
				Signature: sign(deleteMsg(builderAddr, "x"), builderPK),
				Message:   deleteMsg(builderAddr, "x"),
				Rule:      auth.RuleSelfOrAdmin(stranger),
			},
			wantErr: auth.ErrForbidden,
		},
		{
			name: "norule",
			req: auth.Request{
				Address:   builderAddr,
				Signature: sign(deleteMsg(builderAddr, "x"), builderPK),
				Message:   deleteMsg(builderAddr, "x"),
			},
			wantErr: auth.ErrForbidden,
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			err := a.Authorize(ctx, tst.req)

			switch {
			case tst.wantErr == nil && err != nil:
				t.Fatalf("Should be authorized: %s", err)
			case tst.wantErr != nil && !errors.Is(err, tst.wantErr):
				t.Fatalf("Should get back %v, got %v", tst.wantErr, err)
			}
		}

		t.Run(tst.name, f)
	}
}
