package handlers_test

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/speedrunethereum/speedrun/app/services/speedrun-api/handlers"
	"github.com/speedrunethereum/speedrun/business/data/schema"
	"github.com/speedrunethereum/speedrun/business/sys/database/dbtest"
	"github.com/speedrunethereum/speedrun/business/sys/messages"
	"github.com/speedrunethereum/speedrun/foundation/eip712"
	"github.com/speedrunethereum/speedrun/foundation/events"
)

const (
	adminKey   = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	builderKey = "8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"
	otherKey   = "9f332e3700d8fc2446eaf6d15034cf96e0c2745e40353deef032a5dbf1dfed93"
	guestKey   = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
)

type onchain struct{}

func (onchain) Portfolio(ctx context.Context, address string) (json.RawMessage, error) {
	return json.RawMessage(`{"total":{"positions":42}}`), nil
}

type wallet struct {
	pk   *ecdsa.PrivateKey
	addr string
}

func newWallet(t *testing.T, key string) wallet {
	pk, err := crypto.HexToECDSA(key)
	if err != nil {
		t.Fatalf("Should be able to load key: %s", err)
	}

	return wallet{pk: pk, addr: crypto.PubkeyToAddress(pk.PublicKey).Hex()}
}

// body signs the message for the schema and returns the request body with
// the signer fields added.
func (w wallet) body(t *testing.T, s messages.Schema, msg map[string]any, fields map[string]any) map[string]any {
	t.Helper()

	values := map[string]any{"address": w.addr}
	for k, v := range msg {
		values[k] = v
	}

	sig, err := eip712.Sign(s.TypedData(values), w.pk)
	if err != nil {
		t.Fatalf("Should be able to sign %s: %s", s.Name, err)
	}

	body := map[string]any{"address": w.addr, "signature": sig}
	for k, v := range fields {
		body[k] = v
	}

	return body
}

type apiTest struct {
	t   *testing.T
	app http.Handler
}

func newAPITest(t *testing.T) (*apiTest, wallet) {
	log, db, teardown := dbtest.NewUnit(t, schema.Models()...)
	t.Cleanup(teardown)

	admin := newWallet(t, adminKey)
	if _, err := schema.Promote(context.Background(), log, db, admin.addr); err != nil {
		t.Fatalf("Should be able to promote the admin: %s", err)
	}

	app := handlers.APIMux(handlers.APIMuxConfig{
		Shutdown:    make(chan os.Signal, 1),
		Log:         log,
		DB:          db,
		Evts:        events.New(),
		Onchain:     onchain{},
		CorsOrigins: []string{"*"},
	})

	return &apiTest{t: t, app: app}, admin
}

func (at *apiTest) do(method string, path string, body any) (int, map[string]json.RawMessage) {
	at.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			at.t.Fatalf("Should be able to encode body: %s", err)
		}
	}

	r := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	at.app.ServeHTTP(w, r)

	var resp map[string]json.RawMessage
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			at.t.Fatalf("Should be able to decode response %q: %s", w.Body.String(), err)
		}
	}

	return w.Code, resp
}

func (at *apiTest) expect(name string, method string, path string, body any, status int) map[string]json.RawMessage {
	at.t.Helper()

	got, resp := at.do(method, path, body)
	if got != status {
		at.t.Fatalf("\t%s\t%s: should receive %d, got %d: %v", dbtest.Failed, name, status, got, resp)
	}
	at.t.Logf("\t%s\t%s: should receive %d.", dbtest.Success, name, status)

	return resp
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("Should be able to decode %s: %s", raw, err)
	}
	return v
}

func register(at *apiTest, t *testing.T, w wallet) {
	t.Helper()

	body := w.body(t, messages.Register, map[string]any{"description": messages.RegisterDescription}, nil)
	at.expect("register "+w.addr, http.MethodPost, "/v1/users/register", body, http.StatusCreated)
}

// =============================================================================

func Test_Register(t *testing.T) {
	at, _ := newAPITest(t)
	builder := newWallet(t, builderKey)

	t.Log("Given the need to register builders.")
	{
		body := builder.body(t, messages.Register, map[string]any{"description": messages.RegisterDescription}, nil)

		resp := at.expect("first registration", http.MethodPost, "/v1/users/register", body, http.StatusCreated)
		usr := decode[map[string]any](t, resp["user"])
		if usr["address"] != strings.ToLower(builder.addr) || usr["role"] != "user" {
			t.Fatalf("\t%s\tShould return the registered user, got %v.", dbtest.Failed, usr)
		}
		t.Logf("\t%s\tShould return the registered user.", dbtest.Success)

		at.expect("second registration", http.MethodPost, "/v1/users/register", body, http.StatusOK)

		wrong := builder.body(t, messages.Register, map[string]any{"description": "something else"}, nil)
		at.expect("wrong statement", http.MethodPost, "/v1/users/register", wrong, http.StatusUnauthorized)

		other := newWallet(t, otherKey)
		forged := builder.body(t, messages.Register, map[string]any{"description": messages.RegisterDescription}, nil)
		forged["address"] = other.addr
		at.expect("claimed address differs from signer", http.MethodPost, "/v1/users/register", forged, http.StatusUnauthorized)

		at.expect("missing signature", http.MethodPost, "/v1/users/register", map[string]any{"address": builder.addr}, http.StatusBadRequest)
		at.expect("unknown field", http.MethodPost, "/v1/users/register", map[string]any{"address": builder.addr, "signature": "0x00", "extra": 1}, http.StatusBadRequest)

		resp = at.expect("query user", http.MethodGet, "/v1/users/"+builder.addr, nil, http.StatusOK)
		if _, exists := resp["user"]; !exists {
			t.Fatalf("\t%s\tShould wrap the user in an envelope.", dbtest.Failed)
		}

		at.expect("unknown user", http.MethodGet, "/v1/users/0x0000000000000000000000000000000000000001", nil, http.StatusNotFound)
	}
}

func Test_UpdateUser(t *testing.T) {
	at, admin := newAPITest(t)
	builder := newWallet(t, builderKey)
	register(at, t, builder)

	path := "/v1/users/" + builder.addr + "/update"

	t.Log("Given the need to change roles only through admins.")
	{
		msg := map[string]any{"userAddress": builder.addr, "role": "admin"}
		fields := map[string]any{"role": "admin"}

		self := builder.body(t, messages.UpdateUser, msg, fields)
		at.expect("self promotion", http.MethodPut, path, self, http.StatusForbidden)

		resp := at.expect("query after refused promotion", http.MethodGet, "/v1/users/"+builder.addr, nil, http.StatusOK)
		if usr := decode[map[string]any](t, resp["user"]); usr["role"] != "user" {
			t.Fatalf("\t%s\tShould not change the role, got %v.", dbtest.Failed, usr["role"])
		}

		msg["role"] = "builder"
		fields["role"] = "builder"
		body := admin.body(t, messages.UpdateUser, msg, fields)
		resp = at.expect("admin update", http.MethodPut, path, body, http.StatusOK)
		if usr := decode[map[string]any](t, resp["user"]); usr["role"] != "builder" {
			t.Fatalf("\t%s\tShould change the role, got %v.", dbtest.Failed, usr["role"])
		}

		other := "/v1/users/0x0000000000000000000000000000000000000001/update"
		msg["userAddress"] = "0x0000000000000000000000000000000000000001"
		body = admin.body(t, messages.UpdateUser, msg, fields)
		at.expect("unknown user", http.MethodPut, other, body, http.StatusNotFound)

		msg["userAddress"] = builder.addr
		body = admin.body(t, messages.UpdateUser, msg, fields)
		at.expect("signature for a different target", http.MethodPut, other, body, http.StatusUnauthorized)
	}
}

func Test_Profile(t *testing.T) {
	at, _ := newAPITest(t)
	builder := newWallet(t, builderKey)
	other := newWallet(t, otherKey)
	register(at, t, builder)
	register(at, t, other)

	t.Log("Given the need for builders to manage their profile.")
	{
		msg := map[string]any{"userAddress": builder.addr, "ensName": "builder.eth", "ensAvatar": ""}
		fields := map[string]any{"ensName": "builder.eth"}

		body := builder.body(t, messages.UpdateENS, msg, fields)
		resp := at.expect("self ens update", http.MethodPut, "/v1/users/"+builder.addr+"/update-ens", body, http.StatusOK)
		if usr := decode[map[string]any](t, resp["user"]); usr["ensName"] != "builder.eth" {
			t.Fatalf("\t%s\tShould store the ens name, got %v.", dbtest.Failed, usr["ensName"])
		}

		body = other.body(t, messages.UpdateENS, msg, fields)
		at.expect("update of another user", http.MethodPut, "/v1/users/"+builder.addr+"/update-ens", body, http.StatusForbidden)

		body = builder.body(t, messages.UpdateOnchainData, map[string]any{"userAddress": builder.addr}, nil)
		resp = at.expect("onchain refresh", http.MethodPut, "/v1/users/"+builder.addr+"/update-onchain-data", body, http.StatusOK)
		if usr := decode[map[string]json.RawMessage](t, resp["user"]); len(usr["onchainData"]) == 0 {
			t.Fatalf("\t%s\tShould store the onchain snapshot.", dbtest.Failed)
		}

		msg = map[string]any{"userAddress": builder.addr, "github": "builder", "location": "Lisbon"}
		fields = map[string]any{"github": "builder", "location": "Lisbon"}
		body = builder.body(t, messages.UpdateSocials, msg, fields)
		resp = at.expect("socials update", http.MethodPut, "/v1/users/"+builder.addr+"/update-socials", body, http.StatusOK)
		if usr := decode[map[string]any](t, resp["user"]); usr["location"] != "Lisbon" {
			t.Fatalf("\t%s\tShould store the location, got %v.", dbtest.Failed, usr["location"])
		}
	}
}

func Test_Builds(t *testing.T) {
	at, admin := newAPITest(t)
	owner := newWallet(t, builderKey)
	other := newWallet(t, otherKey)
	register(at, t, owner)
	register(at, t, other)

	t.Log("Given the need to manage builds.")

	fields := map[string]any{
		"name":          "Speedrun Dex",
		"description":   "A tiny dex",
		"buildType":     "dapp",
		"buildCategory": "DeFi",
		"coBuilders":    []string{},
	}
	msg := map[string]any{
		"name":          "Speedrun Dex",
		"description":   "A tiny dex",
		"buildType":     "dapp",
		"buildCategory": "DeFi",
		"coBuilders":    "",
	}

	body := owner.body(t, messages.SubmitBuild, msg, fields)
	resp := at.expect("submit", http.MethodPost, "/v1/users/builds/submit", body, http.StatusCreated)
	bld := decode[map[string]any](t, resp["build"])
	buildID, _ := bld["id"].(string)

	bad := owner.body(t, messages.SubmitBuild, msg, fields)
	bad["name"] = "Tampered"
	at.expect("tampered field", http.MethodPost, "/v1/users/builds/submit", bad, http.StatusUnauthorized)

	t.Log("\tWhen a signer without a user record submits a build.")
	{
		guest := newWallet(t, guestKey)
		body := guest.body(t, messages.SubmitBuild, msg, fields)
		at.expect("unregistered submit", http.MethodPost, "/v1/users/builds/submit", body, http.StatusCreated)
	}

	t.Log("\tWhen builds are filtered by owner.")
	{
		for _, addr := range []string{owner.addr, strings.ToLower(owner.addr)} {
			resp := at.expect("owner "+addr, http.MethodGet, "/v1/builds?owner="+addr, nil, http.StatusOK)
			blds := decode[[]map[string]any](t, resp["builds"])
			if len(blds) != 1 || blds[0]["id"] != buildID {
				t.Fatalf("\t%s\tShould find the owner's build for %s, got %v.", dbtest.Failed, addr, blds)
			}
		}

		at.expect("malformed owner", http.MethodGet, "/v1/builds?owner=not-an-address", nil, http.StatusBadRequest)
	}

	t.Log("\tWhen a non owner tries to delete the build.")
	{
		del := other.body(t, messages.DeleteBuild, map[string]any{"buildId": buildID}, nil)
		at.expect("non owner delete", http.MethodDelete, "/v1/users/builds/"+buildID+"/delete", del, http.StatusForbidden)

		malformed := other.body(t, messages.DeleteBuild, map[string]any{"buildId": "not-an-id"}, nil)
		at.expect("malformed id delete", http.MethodDelete, "/v1/users/builds/not-an-id/delete", malformed, http.StatusBadRequest)
		at.expect("build persists", http.MethodGet, "/v1/builds/"+buildID, nil, http.StatusOK)
	}

	t.Log("\tWhen the owner updates the build.")
	{
		msg["buildId"] = buildID
		msg["name"] = "Speedrun Dex v2"
		fields["name"] = "Speedrun Dex v2"
		upd := owner.body(t, messages.UpdateBuild, msg, fields)
		resp := at.expect("owner update", http.MethodPut, "/v1/users/builds/"+buildID+"/update", upd, http.StatusOK)
		if got := decode[map[string]any](t, resp["build"]); got["name"] != "Speedrun Dex v2" {
			t.Fatalf("\t%s\tShould change the name, got %v.", dbtest.Failed, got["name"])
		}
	}

	t.Log("\tWhen likes are toggled.")
	{
		like := other.body(t, messages.LikeBuild, map[string]any{"action": messages.LikeAction, "buildId": buildID}, nil)
		resp := at.expect("like", http.MethodPost, "/v1/users/builds/"+buildID+"/like", like, http.StatusOK)
		if got := decode[map[string]any](t, resp["like"]); got["liked"] != true || got["likeCount"] != float64(1) {
			t.Fatalf("\t%s\tShould count the like, got %v.", dbtest.Failed, got)
		}

		at.expect("like replay", http.MethodPost, "/v1/users/builds/"+buildID+"/like", like, http.StatusUnauthorized)

		unlike := other.body(t, messages.LikeBuild, map[string]any{"action": messages.UnlikeAction, "buildId": buildID}, nil)
		resp = at.expect("unlike", http.MethodPost, "/v1/users/builds/"+buildID+"/like", unlike, http.StatusOK)
		if got := decode[map[string]any](t, resp["like"]); got["liked"] != false || got["likeCount"] != float64(0) {
			t.Fatalf("\t%s\tShould restore the count, got %v.", dbtest.Failed, got)
		}
	}

	t.Log("\tWhen an admin deletes the build.")
	{
		del := admin.body(t, messages.DeleteBuild, map[string]any{"buildId": buildID}, nil)
		at.expect("admin delete", http.MethodDelete, "/v1/users/builds/"+buildID+"/delete", del, http.StatusOK)
		at.expect("build gone", http.MethodGet, "/v1/builds/"+buildID, nil, http.StatusNotFound)
		at.expect("malformed id", http.MethodGet, "/v1/builds/not-an-id", nil, http.StatusBadRequest)
		at.expect("delete again", http.MethodDelete, "/v1/users/builds/"+buildID+"/delete", del, http.StatusNotFound)
	}
}

func Test_Batches(t *testing.T) {
	at, admin := newAPITest(t)
	builder := newWallet(t, builderKey)
	register(at, t, builder)

	t.Log("Given the need for unique batch names.")
	{
		fields := map[string]any{"name": "Batch 5", "startDate": "2025-01-06", "status": "open"}
		msg := map[string]any{"name": "Batch 5", "startDate": "2025-01-06", "status": "open"}

		body := admin.body(t, messages.CreateBatch, msg, fields)
		resp := at.expect("create", http.MethodPost, "/v1/batches/create", body, http.StatusCreated)
		bch := decode[map[string]any](t, resp["batch"])

		for _, name := range []string{"Batch 5", "batch-5", " BATCH 5 "} {
			fields["name"] = name
			msg["name"] = name
			body := admin.body(t, messages.CreateBatch, msg, fields)
			at.expect("duplicate "+name, http.MethodPost, "/v1/batches/create", body, http.StatusConflict)
		}

		fields["name"] = "Batch 6"
		msg["name"] = "Batch 6"
		body = builder.body(t, messages.CreateBatch, msg, fields)
		at.expect("non admin create", http.MethodPost, "/v1/batches/create", body, http.StatusForbidden)

		resp = at.expect("list", http.MethodGet, "/v1/batches", nil, http.StatusOK)
		if got := decode[[]map[string]any](t, resp["batches"]); len(got) != 1 {
			t.Fatalf("\t%s\tShould hold a single batch, got %d.", dbtest.Failed, len(got))
		}

		batchID, _ := bch["id"].(string)
		msg["batchId"] = batchID
		msg["status"] = "closed"
		fields["status"] = "closed"
		body = admin.body(t, messages.UpdateBatch, msg, fields)
		resp = at.expect("update", http.MethodPut, "/v1/batches/"+batchID+"/update", body, http.StatusOK)
		if got := decode[map[string]any](t, resp["batch"]); got["name"] != "Batch 6" || got["status"] != "closed" {
			t.Fatalf("\t%s\tShould replace the batch, got %v.", dbtest.Failed, got)
		}

		at.expect("query", http.MethodGet, "/v1/batches/"+batchID, nil, http.StatusOK)
		at.expect("malformed id", http.MethodGet, "/v1/batches/not-an-id", nil, http.StatusBadRequest)
	}
}

func Test_Notes(t *testing.T) {
	at, admin := newAPITest(t)
	builder := newWallet(t, builderKey)
	register(at, t, builder)

	base := "/v1/users/" + builder.addr + "/notes"

	t.Log("Given the need for admins to annotate builders.")
	{
		msg := map[string]any{"userAddress": builder.addr, "comment": "great dex"}
		fields := map[string]any{"comment": "great dex"}

		body := builder.body(t, messages.CreateNote, msg, fields)
		at.expect("non admin create", http.MethodPost, base, body, http.StatusForbidden)

		body = admin.body(t, messages.CreateNote, msg, fields)
		resp := at.expect("create", http.MethodPost, base, body, http.StatusCreated)
		nt := decode[map[string]any](t, resp["note"])
		noteID, _ := nt["id"].(string)

		list := admin.body(t, messages.ReadNotes, map[string]any{"userAddress": builder.addr}, nil)
		resp = at.expect("list", http.MethodPost, base+"/list", list, http.StatusOK)
		if got := decode[[]map[string]any](t, resp["notes"]); len(got) != 1 {
			t.Fatalf("\t%s\tShould list one note, got %d.", dbtest.Failed, len(got))
		}

		del := admin.body(t, messages.DeleteNote, map[string]any{"userAddress": builder.addr, "noteId": noteID}, nil)
		at.expect("delete", http.MethodDelete, base+"/"+noteID, del, http.StatusOK)
		at.expect("delete again", http.MethodDelete, base+"/"+noteID, del, http.StatusNotFound)
	}
}

func Test_Challenges(t *testing.T) {
	at, admin := newAPITest(t)
	builder := newWallet(t, builderKey)
	register(at, t, builder)

	t.Log("Given the need to submit and review challenges.")
	{
		resp := at.expect("catalog", http.MethodGet, "/v1/challenges", nil, http.StatusOK)
		if got := decode[[]map[string]any](t, resp["challenges"]); len(got) == 0 {
			t.Fatalf("\t%s\tShould list the catalog.", dbtest.Failed)
		}

		msg := map[string]any{"challengeId": "token-vendor", "contractUrl": "https://etherscan.io/address/0x1"}
		fields := map[string]any{"contractUrl": "https://etherscan.io/address/0x1"}

		body := builder.body(t, messages.SubmitChallenge, msg, fields)
		resp = at.expect("submit", http.MethodPost, "/v1/challenges/token-vendor/submit", body, http.StatusCreated)
		sub := decode[map[string]any](t, resp["submission"])
		id := fmt.Sprintf("%.0f", sub["id"])

		msg["challengeId"] = "not-a-challenge"
		body = builder.body(t, messages.SubmitChallenge, msg, fields)
		at.expect("unknown challenge", http.MethodPost, "/v1/challenges/not-a-challenge/submit", body, http.StatusNotFound)

		review := map[string]any{"submissionId": id, "reviewAction": "ACCEPTED", "reviewComment": "nice"}
		reviewFields := map[string]any{"reviewAction": "ACCEPTED", "reviewComment": "nice"}

		body = builder.body(t, messages.ReviewSubmission, review, reviewFields)
		at.expect("self review", http.MethodPut, "/v1/submissions/"+id+"/review", body, http.StatusForbidden)

		body = admin.body(t, messages.ReviewSubmission, review, reviewFields)
		at.expect("review", http.MethodPut, "/v1/submissions/"+id+"/review", body, http.StatusOK)
		at.expect("review again", http.MethodPut, "/v1/submissions/"+id+"/review", body, http.StatusConflict)

		resp = at.expect("latest per challenge", http.MethodGet, "/v1/users/"+builder.addr+"/challenges", nil, http.StatusOK)
		got := decode[[]map[string]any](t, resp["challenges"])
		if len(got) != 1 || got[0]["reviewAction"] != "ACCEPTED" {
			t.Fatalf("\t%s\tShould report the accepted challenge, got %v.", dbtest.Failed, got)
		}

		msg["challengeId"] = "token-vendor"
		body = builder.body(t, messages.SubmitChallenge, msg, fields)
		at.expect("resubmit accepted", http.MethodPost, "/v1/challenges/token-vendor/submit", body, http.StatusConflict)
	}
}
