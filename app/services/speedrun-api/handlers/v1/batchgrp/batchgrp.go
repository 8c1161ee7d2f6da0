// Package batchgrp maintains the group of handlers for batch access.
package batchgrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/speedrunethereum/speedrun/business/core/batch"
	"github.com/speedrunethereum/speedrun/business/core/user"
	"github.com/speedrunethereum/speedrun/business/sys/auth"
	"github.com/speedrunethereum/speedrun/business/sys/messages"
	"github.com/speedrunethereum/speedrun/business/sys/validate"
	"github.com/speedrunethereum/speedrun/business/web/errs"
	"github.com/speedrunethereum/speedrun/business/web/metrics"
	"github.com/speedrunethereum/speedrun/business/web/paging"
	"github.com/speedrunethereum/speedrun/business/web/signed"
	"github.com/speedrunethereum/speedrun/foundation/events"
	"github.com/speedrunethereum/speedrun/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of batch endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	Batch *batch.Core
	User  *user.Core
	Auth  *auth.Auth
	Evts  *events.Events
}

// Create adds a new batch. Names are unique after normalization.
func (h Handlers) Create(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var app AppNewBatch
	if err := signed.Decode(r, &app); err != nil {
		return err
	}

	msg := app.message()
	msg["address"] = app.Address

	if err := signed.Authorize(ctx, h.Auth, app, messages.CreateBatch.TypedData(msg), auth.RuleAdmin); err != nil {
		return err
	}

	startDate, status, err := app.parse()
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	nb := batch.NewBatch{
		Name:            app.Name,
		StartDate:       startDate,
		Status:          status,
		TelegramLink:    app.TelegramLink,
		ContractAddress: app.ContractAddress,
	}

	bch, err := h.Batch.Create(ctx, nb, v.Now)
	if err != nil {
		return batchError(err)
	}

	h.Log.Infow("create batch", "traceid", v.TraceID, "address", app.Address, "batchid", bch.ID, "name", bch.Name)
	h.publish("batch.created", app.Address, bch.ID, v)

	return web.Respond(ctx, w, map[string]any{"batch": toAppBatch(bch)}, http.StatusCreated)
}

// Update replaces the information of a batch.
func (h Handlers) Update(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	batchID, err := pathBatchID(r)
	if err != nil {
		return err
	}

	var app AppUpdateBatch
	if err := signed.Decode(r, &app); err != nil {
		return err
	}

	msg := app.message()
	msg["address"] = app.Address
	msg["batchId"] = batchID

	if err := signed.Authorize(ctx, h.Auth, app, messages.UpdateBatch.TypedData(msg), auth.RuleAdmin); err != nil {
		return err
	}

	bch, err := h.queryBatch(ctx, batchID)
	if err != nil {
		return err
	}

	startDate, status, err := app.parse()
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	ub := batch.UpdateBatch{
		Name:            &app.Name,
		StartDate:       &startDate,
		Status:          &status,
		TelegramLink:    &app.TelegramLink,
		ContractAddress: &app.ContractAddress,
	}

	bch, err = h.Batch.Update(ctx, bch, ub, v.Now)
	if err != nil {
		return batchError(err)
	}

	h.Log.Infow("update batch", "traceid", v.TraceID, "address", app.Address, "batchid", bch.ID)
	h.publish("batch.updated", app.Address, bch.ID, v)

	return web.Respond(ctx, w, map[string]any{"batch": toAppBatch(bch)}, http.StatusOK)
}

// Query returns a list of batches with paging.
func (h Handlers) Query(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	page, err := paging.Parse(r)
	if err != nil {
		return err
	}

	bchs, err := h.Batch.Query(ctx, page.Number, page.Rows)
	if err != nil {
		return fmt.Errorf("unable to query for batches: %w", err)
	}

	return web.Respond(ctx, w, map[string]any{"batches": toAppBatches(bchs)}, http.StatusOK)
}

// QueryByID returns a batch by its ID along with its builders.
func (h Handlers) QueryByID(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	batchID, err := pathBatchID(r)
	if err != nil {
		return err
	}

	bch, err := h.queryBatch(ctx, batchID)
	if err != nil {
		return err
	}

	filter := user.QueryFilter{BatchID: &bch.ID}

	usrs, err := h.User.Query(ctx, filter, 1, paging.MaxRows)
	if err != nil {
		return fmt.Errorf("unable to query batch builders: %w", err)
	}

	resp := map[string]any{
		"batch":    toAppBatch(bch),
		"builders": toAppBuilders(usrs),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

func (h Handlers) queryBatch(ctx context.Context, batchID string) (batch.Batch, error) {
	bch, err := h.Batch.QueryByID(ctx, batchID)
	if err != nil {
		if errors.Is(err, batch.ErrNotFound) {
			return batch.Batch{}, errs.NewTrusted(batch.ErrNotFound, http.StatusNotFound)
		}
		return batch.Batch{}, fmt.Errorf("querying batch[%s]: %w", batchID, err)
	}

	return bch, nil
}

func (h Handlers) publish(typ string, actor string, batchID string, v *web.Values) {
	metrics.AddMutation(typ)
	h.Evts.Send(events.Event{
		Type:     typ,
		Actor:    actor,
		Resource: "batch",
		ID:       batchID,
		Time:     v.Now,
	})
}

func batchError(err error) error {
	switch {
	case errors.Is(err, batch.ErrNameExists):
		return errs.NewTrusted(batch.ErrNameExists, http.StatusConflict)
	case errors.Is(err, batch.ErrInvalidName):
		return errs.NewTrusted(batch.ErrInvalidName, http.StatusBadRequest)
	}

	return fmt.Errorf("batch: %w", err)
}

func pathBatchID(r *http.Request) (string, error) {
	batchID := web.Param(r, "batchId")
	if err := validate.CheckID(batchID); err != nil {
		return "", errs.NewTrusted(err, http.StatusBadRequest)
	}

	return batchID, nil
}
