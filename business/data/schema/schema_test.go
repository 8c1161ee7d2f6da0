package schema_test

import (
	"context"
	"testing"

	"github.com/speedrunethereum/speedrun/business/core/batch"
	"github.com/speedrunethereum/speedrun/business/core/batch/stores/batchdb"
	"github.com/speedrunethereum/speedrun/business/core/user"
	"github.com/speedrunethereum/speedrun/business/core/user/stores/userdb"
	"github.com/speedrunethereum/speedrun/business/data/schema"
	"github.com/speedrunethereum/speedrun/business/sys/database/dbtest"
)

func Test_Seed(t *testing.T) {
	log, db, teardown := dbtest.NewUnit(t, schema.Models()...)
	t.Cleanup(teardown)

	ctx := context.Background()
	const admin = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"

	t.Log("Given the need to seed a fresh database.")
	{
		if err := schema.Seed(ctx, log, db, admin); err != nil {
			t.Fatalf("\t%s\tShould be able to seed the database: %s", dbtest.Failed, err)
		}
		t.Logf("\t%s\tShould be able to seed the database.", dbtest.Success)

		usr, err := user.NewCore(userdb.NewStore(log, db)).QueryByAddress(ctx, admin)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to retrieve the admin: %s", dbtest.Failed, err)
		}

		if usr.Role != user.RoleAdmin {
			t.Fatalf("\t%s\tShould have the admin role, got %s.", dbtest.Failed, usr.Role.Name())
		}
		t.Logf("\t%s\tShould have the admin role.", dbtest.Success)

		if _, err := schema.Promote(ctx, log, db, admin); err != nil {
			t.Fatalf("\t%s\tShould be able to promote again: %s", dbtest.Failed, err)
		}
		t.Logf("\t%s\tShould be able to promote again.", dbtest.Success)

		if err := schema.Seed(ctx, log, db, admin); err != nil {
			t.Fatalf("\t%s\tShould be able to seed again: %s", dbtest.Failed, err)
		}
		t.Logf("\t%s\tShould be able to seed again.", dbtest.Success)

		bchs, err := batch.NewCore(batchdb.NewStore(log, db)).Query(ctx, 1, 10)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to query batches: %s", dbtest.Failed, err)
		}

		if len(bchs) != 1 {
			t.Fatalf("\t%s\tShould have a single seeded batch, got %d.", dbtest.Failed, len(bchs))
		}
		t.Logf("\t%s\tShould have a single seeded batch.", dbtest.Success)
	}
}
