package zerion_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/speedrunethereum/speedrun/business/sys/zerion"
)

const address = "0xdd6b972ffcc631a62cae1bb9d80b7ff429c8eba4"

func Test_Portfolio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		if !ok || user != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if r.URL.Path != "/v1/wallets/"+address+"/portfolio" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Write([]byte(`{"data":{"type":"portfolio","attributes":{"total":{"positions":12.5}}}}`))
	}))
	defer srv.Close()

	client := zerion.New(srv.URL, "key", time.Second)

	data, err := client.Portfolio(context.Background(), address)
	if err != nil {
		t.Fatalf("Should be able to fetch the portfolio: %s", err)
	}

	if string(data) != `{"type":"portfolio","attributes":{"total":{"positions":12.5}}}` {
		t.Fatalf("Should get back the data document, got %s", data)
	}

	if _, err := zerion.New(srv.URL, "wrong", time.Second).Portfolio(context.Background(), address); err == nil {
		t.Fatalf("Should fail when the provider rejects the key.")
	}

	if _, err := zerion.New(srv.URL, "", time.Second).Portfolio(context.Background(), address); !errors.Is(err, zerion.ErrDisabled) {
		t.Fatalf("Should report the client as disabled without a key: %v", err)
	}
}
