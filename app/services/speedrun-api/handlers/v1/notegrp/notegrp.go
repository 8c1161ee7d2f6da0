// Package notegrp maintains the group of handlers for the notes admins keep
// about users.
package notegrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/speedrunethereum/speedrun/business/core/note"
	"github.com/speedrunethereum/speedrun/business/core/user"
	"github.com/speedrunethereum/speedrun/business/sys/auth"
	"github.com/speedrunethereum/speedrun/business/sys/messages"
	"github.com/speedrunethereum/speedrun/business/web/errs"
	"github.com/speedrunethereum/speedrun/business/web/metrics"
	"github.com/speedrunethereum/speedrun/business/web/signed"
	"github.com/speedrunethereum/speedrun/foundation/events"
	"github.com/speedrunethereum/speedrun/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of note endpoints.
type Handlers struct {
	Log  *zap.SugaredLogger
	Note *note.Core
	User *user.Core
	Auth *auth.Auth
	Evts *events.Events
}

// Create attaches a note to a user.
func (h Handlers) Create(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	address, err := pathAddress(r)
	if err != nil {
		return err
	}

	var app AppNewNote
	if err := signed.Decode(r, &app); err != nil {
		return err
	}

	td := messages.CreateNote.TypedData(map[string]any{
		"address":     app.Address,
		"userAddress": address,
		"comment":     app.Comment,
	})
	if err := signed.Authorize(ctx, h.Auth, app, td, auth.RuleAdmin); err != nil {
		return err
	}

	if err := h.checkUser(ctx, address); err != nil {
		return err
	}

	nn := note.NewNote{
		AuthorAddress: app.Address,
		TargetAddress: address,
		Comment:       app.Comment,
	}

	nt, err := h.Note.Create(ctx, nn, v.Now)
	if err != nil {
		return fmt.Errorf("create note: address[%s]: %w", address, err)
	}

	h.Log.Infow("create note", "traceid", v.TraceID, "admin", app.Address, "address", address, "noteid", nt.ID)
	h.publish("note.created", app.Address, nt.ID, v)

	return web.Respond(ctx, w, map[string]any{"note": toAppNote(nt)}, http.StatusCreated)
}

// List returns the notes of a user. Reading notes is restricted to admins,
// so the request carries a signature like any mutation.
func (h Handlers) List(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address, err := pathAddress(r)
	if err != nil {
		return err
	}

	var app AppReadNotes
	if err := signed.Decode(r, &app); err != nil {
		return err
	}

	td := messages.ReadNotes.TypedData(map[string]any{
		"address":     app.Address,
		"userAddress": address,
	})
	if err := signed.Authorize(ctx, h.Auth, app, td, auth.RuleAdmin); err != nil {
		return err
	}

	nts, err := h.Note.QueryByTarget(ctx, address)
	if err != nil {
		return fmt.Errorf("query notes: address[%s]: %w", address, err)
	}

	return web.Respond(ctx, w, map[string]any{"notes": toAppNotes(nts)}, http.StatusOK)
}

// Delete removes a note from a user.
func (h Handlers) Delete(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	address, err := pathAddress(r)
	if err != nil {
		return err
	}

	noteID := web.Param(r, "noteId")

	var app AppDeleteNote
	if err := signed.Decode(r, &app); err != nil {
		return err
	}

	td := messages.DeleteNote.TypedData(map[string]any{
		"address":     app.Address,
		"userAddress": address,
		"noteId":      noteID,
	})
	if err := signed.Authorize(ctx, h.Auth, app, td, auth.RuleAdmin); err != nil {
		return err
	}

	nt, err := h.Note.QueryByID(ctx, address, noteID)
	if err != nil {
		if errors.Is(err, note.ErrNotFound) {
			return errs.NewTrusted(note.ErrNotFound, http.StatusNotFound)
		}
		return fmt.Errorf("querying note[%s]: %w", noteID, err)
	}

	if err := h.Note.Delete(ctx, nt); err != nil {
		return fmt.Errorf("delete note: noteID[%s]: %w", noteID, err)
	}

	h.Log.Infow("delete note", "traceid", v.TraceID, "admin", app.Address, "address", address, "noteid", noteID)
	h.publish("note.deleted", app.Address, noteID, v)

	return web.Respond(ctx, w, map[string]any{"note": toAppNote(nt)}, http.StatusOK)
}

// =============================================================================

func (h Handlers) checkUser(ctx context.Context, address string) error {
	if _, err := h.User.QueryByAddress(ctx, address); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return errs.NewTrusted(user.ErrNotFound, http.StatusNotFound)
		}
		return fmt.Errorf("querying user[%s]: %w", address, err)
	}

	return nil
}

func (h Handlers) publish(typ string, actor string, noteID string, v *web.Values) {
	metrics.AddMutation(typ)
	h.Evts.Send(events.Event{
		Type:     typ,
		Actor:    actor,
		Resource: "note",
		ID:       noteID,
		Time:     v.Now,
	})
}

func pathAddress(r *http.Request) (string, error) {
	address, err := user.NormalizeAddress(web.Param(r, "address"))
	if err != nil {
		return "", errs.NewTrusted(err, http.StatusBadRequest)
	}

	return address, nil
}
