// Package messages declares the typed-data schema of every signed operation.
// Field names and their order are part of the hash, so changing a schema
// invalidates every signature produced against the old one.
package messages

import (
	"fmt"
	"sort"

	"github.com/speedrunethereum/speedrun/foundation/eip712"
)

// Domain is the separator every signature is bound to.
var Domain = eip712.Domain{
	Name:    "SpeedRunEthereum",
	Version: "1",
}

// primaryType is the struct name used by every schema.
const primaryType = "Message"

// Schema describes the message a wallet signs for one operation.
type Schema struct {
	Name   string
	Action string
	Fields []eip712.Field
}

// TypedData builds the message for the schema from the values provided. The
// action is filled in from the schema unless the caller provides one. Missing
// string fields are signed as empty strings.
func (s Schema) TypedData(values map[string]any) eip712.TypedData {
	msg := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		v, exists := values[f.Name]
		switch {
		case exists:
			msg[f.Name] = v
		case f.Name == "action":
			msg[f.Name] = s.Action
		case f.Type == "string":
			msg[f.Name] = ""
		}
	}

	return eip712.New(Domain, primaryType, s.Fields, msg)
}

// =============================================================================

func fields(names ...string) []eip712.Field {
	out := make([]eip712.Field, len(names))
	for i, name := range names {
		typ := "string"
		if name == "address" || name == "userAddress" {
			typ = "address"
		}
		out[i] = eip712.Field{Name: name, Type: typ}
	}
	return out
}

// RegisterDescription is the statement a builder signs to register.
const RegisterDescription = "I would like to register as a builder in speedrunethereum.com signing this offchain message"

// Set of schemas for the signed operations.
var (
	Register = Schema{
		Name:   "register",
		Action: "Register",
		Fields: fields("action", "description"),
	}

	UpdateUser = Schema{
		Name:   "update-user",
		Action: "Update User",
		Fields: fields("action", "address", "userAddress", "role", "batchId", "batchStatus"),
	}

	UpdateOnchainData = Schema{
		Name:   "update-onchain-data",
		Action: "Update Onchain Data",
		Fields: fields("action", "address", "userAddress"),
	}

	UpdateENS = Schema{
		Name:   "update-ens",
		Action: "Update ENS",
		Fields: fields("action", "address", "userAddress", "ensName", "ensAvatar"),
	}

	UpdateSocials = Schema{
		Name:   "update-socials",
		Action: "Update Socials",
		Fields: fields("action", "address", "userAddress", "telegram", "twitter", "github", "email", "instagram", "discord", "website", "location"),
	}

	SubmitBuild = Schema{
		Name:   "submit-build",
		Action: "Submit Build",
		Fields: fields("action", "address", "name", "description", "buildType", "buildCategory", "demoUrl", "videoUrl", "imageUrl", "githubUrl", "coBuilders", "batchId"),
	}

	UpdateBuild = Schema{
		Name:   "update-build",
		Action: "Update Build",
		Fields: fields("action", "address", "buildId", "name", "description", "buildType", "buildCategory", "demoUrl", "videoUrl", "imageUrl", "githubUrl", "coBuilders"),
	}

	DeleteBuild = Schema{
		Name:   "delete-build",
		Action: "Delete Build",
		Fields: fields("action", "address", "buildId"),
	}

	LikeBuild = Schema{
		Name:   "like-build",
		Action: LikeAction,
		Fields: fields("action", "address", "buildId"),
	}

	CreateBatch = Schema{
		Name:   "create-batch",
		Action: "Create Batch",
		Fields: fields("action", "address", "name", "startDate", "status", "telegramLink", "contractAddress"),
	}

	UpdateBatch = Schema{
		Name:   "update-batch",
		Action: "Update Batch",
		Fields: fields("action", "address", "batchId", "name", "startDate", "status", "telegramLink", "contractAddress"),
	}

	CreateNote = Schema{
		Name:   "create-note",
		Action: "Create Note",
		Fields: fields("action", "address", "userAddress", "comment"),
	}

	ReadNotes = Schema{
		Name:   "read-notes",
		Action: "Read Notes",
		Fields: fields("action", "address", "userAddress"),
	}

	DeleteNote = Schema{
		Name:   "delete-note",
		Action: "Delete Note",
		Fields: fields("action", "address", "userAddress", "noteId"),
	}

	SubmitChallenge = Schema{
		Name:   "submit-challenge",
		Action: "Submit Challenge",
		Fields: fields("action", "address", "challengeId", "contractUrl", "frontendUrl"),
	}

	ReviewSubmission = Schema{
		Name:   "review-submission",
		Action: "Review Submission",
		Fields: fields("action", "address", "submissionId", "reviewAction", "reviewComment"),
	}
)

// Actions bound into the like message from the current like state.
const (
	LikeAction   = "like"
	UnlikeAction = "unlike"
)

var schemas = map[string]Schema{}

func init() {
	for _, s := range []Schema{
		Register, UpdateUser, UpdateOnchainData, UpdateENS, UpdateSocials,
		SubmitBuild, UpdateBuild, DeleteBuild, LikeBuild,
		CreateBatch, UpdateBatch,
		CreateNote, ReadNotes, DeleteNote,
		SubmitChallenge, ReviewSubmission,
	} {
		schemas[s.Name] = s
	}
}

// Lookup returns the schema registered under the name.
func Lookup(name string) (Schema, error) {
	s, exists := schemas[name]
	if !exists {
		return Schema{}, fmt.Errorf("unknown operation %q", name)
	}
	return s, nil
}

// Names returns the sorted list of operation names.
func Names() []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
