package validate_test

import (
	"testing"

	"github.com/speedrunethereum/speedrun/business/sys/validate"
)

type payload struct {
	Address   string `json:"address" validate:"required,eth_addr"`
	Signature string `json:"signature" validate:"required,hexadecimal"`
	Name      string `json:"name" validate:"omitempty,max=8"`
}

func Test_Check(t *testing.T) {
	tt := []struct {
		name   string
		val    payload
		fields []string
	}{
		{
			name: "valid",
			val:  payload{Address: "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", Signature: "0xabcd"},
		},
		{
			name:   "missing",
			val:    payload{},
			fields: []string{"address", "signature"},
		},
		{
			name:   "malformed",
			val:    payload{Address: "0x1234", Signature: "zz", Name: "a very long name"},
			fields: []string{"address", "signature", "name"},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			err := validate.Check(tst.val)

			if len(tst.fields) == 0 {
				if err != nil {
					t.Fatalf("Should be able to validate the payload: %s", err)
				}
				return
			}

			if !validate.IsFieldErrors(err) {
				t.Fatalf("Should get back field errors: %v", err)
			}

			fields := validate.GetFieldErrors(err).Fields()
			if len(fields) != len(tst.fields) {
				t.Logf("got: %v", fields)
				t.Fatalf("Should get back %d field errors.", len(tst.fields))
			}

			for _, name := range tst.fields {
				if _, exists := fields[name]; !exists {
					t.Errorf("Should get back an error for field %q.", name)
				}
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_CheckID(t *testing.T) {
	if err := validate.CheckID(validate.GenerateID()); err != nil {
		t.Fatalf("Should be able to validate a generated id: %s", err)
	}

	if err := validate.CheckID("not-an-id"); err == nil {
		t.Fatalf("Should not be able to validate a malformed id.")
	}
}
