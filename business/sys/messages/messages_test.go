package messages_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/speedrunethereum/speedrun/business/sys/messages"
	"github.com/speedrunethereum/speedrun/foundation/eip712"
)

const (
	pkHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	from     = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
)

func Test_Schemas(t *testing.T) {
	for _, name := range messages.Names() {
		s, err := messages.Lookup(name)
		if err != nil {
			t.Fatalf("Should be able to lookup %q: %s", name, err)
		}

		values := map[string]any{
			"address":     from,
			"userAddress": from,
		}

		if _, err := s.TypedData(values).Hash(); err != nil {
			t.Errorf("Should be able to hash the %q message with defaults: %s", name, err)
		}
	}

	if _, err := messages.Lookup("launch-rocket"); err == nil {
		t.Fatalf("Should not be able to lookup an unknown operation.")
	}
}

func Test_ResourceBinding(t *testing.T) {
	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to load the private key: %s", err)
	}

	signed := messages.DeleteBuild.TypedData(map[string]any{"address": from, "buildId": "build-1"})

	sig, err := eip712.Sign(signed, pk)
	if err != nil {
		t.Fatalf("Should be able to sign the message: %s", err)
	}

	if !eip712.Verify(signed, from, sig) {
		t.Fatalf("Should verify against the same build id.")
	}

	replayed := messages.DeleteBuild.TypedData(map[string]any{"address": from, "buildId": "build-2"})
	if eip712.Verify(replayed, from, sig) {
		t.Fatalf("Should not verify when replayed against a different build id.")
	}
}

func Test_LikeAction(t *testing.T) {
	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to load the private key: %s", err)
	}

	like := messages.LikeBuild.TypedData(map[string]any{"action": messages.LikeAction, "address": from, "buildId": "build-1"})

	sig, err := eip712.Sign(like, pk)
	if err != nil {
		t.Fatalf("Should be able to sign the message: %s", err)
	}

	unlike := messages.LikeBuild.TypedData(map[string]any{"action": messages.UnlikeAction, "address": from, "buildId": "build-1"})
	if eip712.Verify(unlike, from, sig) {
		t.Fatalf("Should not verify a like signature as an unlike.")
	}
}
