package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/speedrunethereum/speedrun/business/core/user"
	"github.com/speedrunethereum/speedrun/business/core/user/stores/userdb"
	"github.com/speedrunethereum/speedrun/business/sys/database/dbtest"
)

const address = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"

func Test_User(t *testing.T) {
	log, db, teardown := dbtest.NewUnit(t, &userdb.User{})
	t.Cleanup(teardown)

	core := user.NewCore(userdb.NewStore(log, db))
	ctx := context.Background()
	now := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)

	t.Log("Given the need to work with User records.")
	{
		usr, created, err := core.Register(ctx, user.NewUser{Address: address}, now)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to register user : %s.", dbtest.Failed, err)
		}
		if !created {
			t.Fatalf("\t%s\tShould report the user as created.", dbtest.Failed)
		}
		if usr.Address != "0xdd6b972ffcc631a62cae1bb9d80b7ff429c8eba4" {
			t.Fatalf("\t%s\tShould store the address in lower case : %s.", dbtest.Failed, usr.Address)
		}
		if !usr.Role.Equal(user.RoleRegistered) {
			t.Fatalf("\t%s\tShould start with the registered role : %s.", dbtest.Failed, usr.Role.Name())
		}
		t.Logf("\t%s\tShould be able to register user.", dbtest.Success)

		_, created, err = core.Register(ctx, user.NewUser{Address: address}, now.Add(time.Hour))
		if err != nil {
			t.Fatalf("\t%s\tShould be able to register the user twice : %s.", dbtest.Failed, err)
		}
		if created {
			t.Fatalf("\t%s\tShould not create the user twice.", dbtest.Failed)
		}
		t.Logf("\t%s\tShould not create the user twice.", dbtest.Success)

		admin := user.RoleAdmin
		batchID := "b-1"
		usr, err = core.Update(ctx, usr, user.UpdateUser{Role: &admin, BatchID: &batchID, BatchStatus: &user.BatchGraduate}, now)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to update user : %s.", dbtest.Failed, err)
		}

		saved, err := core.QueryByAddress(ctx, address)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to retrieve user by address : %s.", dbtest.Failed, err)
		}
		if !saved.Role.Equal(user.RoleAdmin) || saved.BatchID != batchID || saved.BatchStatus != user.BatchGraduate {
			t.Fatalf("\t%s\tShould see the updates on the user : %+v.", dbtest.Failed, saved)
		}
		t.Logf("\t%s\tShould be able to update user.", dbtest.Success)

		ens := "bill.eth"
		if _, err := core.UpdateProfile(ctx, saved, user.UpdateProfile{EnsName: &ens}, now); err != nil {
			t.Fatalf("\t%s\tShould be able to update the profile : %s.", dbtest.Failed, err)
		}

		snapshot := json.RawMessage(`{"positions":3}`)
		saved, err = core.QueryByAddress(ctx, address)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to retrieve user by address : %s.", dbtest.Failed, err)
		}
		if _, err := core.UpdateOnchainData(ctx, saved, snapshot, now); err != nil {
			t.Fatalf("\t%s\tShould be able to update on-chain data : %s.", dbtest.Failed, err)
		}

		saved, err = core.QueryByAddress(ctx, address)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to retrieve user by address : %s.", dbtest.Failed, err)
		}
		if saved.EnsName != ens || string(saved.OnchainData) != string(snapshot) {
			t.Fatalf("\t%s\tShould see the profile updates : %+v.", dbtest.Failed, saved)
		}
		if !saved.Role.Equal(user.RoleAdmin) {
			t.Fatalf("\t%s\tShould keep the role on a profile update.", dbtest.Failed)
		}
		t.Logf("\t%s\tShould be able to update the profile.", dbtest.Success)

		filter := user.QueryFilter{BatchID: &batchID}
		users, err := core.Query(ctx, filter, 1, 10)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to query users : %s.", dbtest.Failed, err)
		}
		if len(users) != 1 {
			t.Fatalf("\t%s\tShould get back one user in the batch : %d.", dbtest.Failed, len(users))
		}
		t.Logf("\t%s\tShould be able to query users.", dbtest.Success)

		_, err = core.QueryByAddress(ctx, "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32")
		if !errors.Is(err, user.ErrNotFound) {
			t.Fatalf("\t%s\tShould get not found for an unknown user : %v.", dbtest.Failed, err)
		}

		_, err = core.QueryByAddress(ctx, "bill")
		if !errors.Is(err, user.ErrInvalidAddress) {
			t.Fatalf("\t%s\tShould reject a malformed address : %v.", dbtest.Failed, err)
		}
		t.Logf("\t%s\tShould handle unknown and malformed addresses.", dbtest.Success)
	}
}

func Test_Role(t *testing.T) {
	for _, name := range []string{"anonymous", "user", "builder", "admin"} {
		role, err := user.ParseRole(name)
		if err != nil {
			t.Fatalf("Should be able to parse role %q: %s", name, err)
		}
		if role.Name() != name {
			t.Fatalf("Should get back the role name %q, got %q", name, role.Name())
		}
	}

	if _, err := user.ParseRole("superuser"); err == nil {
		t.Fatalf("Should not be able to parse an unknown role.")
	}

	var role user.Role
	if err := json.Unmarshal([]byte(`"admin"`), &role); err != nil {
		t.Fatalf("Should be able to unmarshal a role: %s", err)
	}
	if !role.Equal(user.RoleAdmin) {
		t.Fatalf("Should unmarshal into the admin role.")
	}
}
