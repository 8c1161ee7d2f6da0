// Package buildgrp maintains the group of handlers for build access.
package buildgrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/speedrunethereum/speedrun/business/core/build"
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

// Handlers manages the set of build endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	Build *build.Core
	Auth  *auth.Auth
	Evts  *events.Events
}

// Submit adds a new build owned by the signer. A build tagged with a batch
// can only be submitted by a member of that batch.
func (h Handlers) Submit(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var app AppNewBuild
	if err := signed.Decode(r, &app); err != nil {
		return err
	}

	msg := app.message()
	msg["address"] = app.Address
	msg["batchId"] = app.BatchID

	rule := auth.RuleAny
	if app.BatchID != "" {
		rule = auth.RuleBatchMember(app.BatchID)
	}

	if err := signed.Authorize(ctx, h.Auth, app, messages.SubmitBuild.TypedData(msg), rule); err != nil {
		return err
	}

	bld, err := h.Build.Create(ctx, toCoreNewBuild(app), v.Now)
	if err != nil {
		if errors.Is(err, build.ErrInvalidType) || errors.Is(err, build.ErrInvalidCategory) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return fmt.Errorf("submit: owner[%s]: %w", app.Address, err)
	}

	h.Log.Infow("submit build", "traceid", v.TraceID, "address", app.Address, "buildid", bld.ID)
	h.publish("build.submitted", app.Address, bld.ID, v)

	return web.Respond(ctx, w, map[string]any{"build": toAppBuild(bld)}, http.StatusCreated)
}

// Update replaces the information of a build.
func (h Handlers) Update(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	buildID, err := pathBuildID(r)
	if err != nil {
		return err
	}

	var app AppUpdateBuild
	if err := signed.Decode(r, &app); err != nil {
		return err
	}

	msg := app.message()
	msg["address"] = app.Address
	msg["buildId"] = buildID

	if err := signed.Authorize(ctx, h.Auth, app, messages.UpdateBuild.TypedData(msg), auth.RuleOwnerOrAdmin(buildID)); err != nil {
		return err
	}

	bld, err := h.queryBuild(ctx, buildID)
	if err != nil {
		return err
	}

	bld, err = h.Build.Update(ctx, bld, toCoreUpdateBuild(app), v.Now)
	if err != nil {
		if errors.Is(err, build.ErrInvalidType) || errors.Is(err, build.ErrInvalidCategory) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return fmt.Errorf("update: buildID[%s]: %w", buildID, err)
	}

	h.Log.Infow("update build", "traceid", v.TraceID, "address", app.Address, "buildid", buildID)
	h.publish("build.updated", app.Address, buildID, v)

	return web.Respond(ctx, w, map[string]any{"build": toAppBuild(bld)}, http.StatusOK)
}

// Delete removes a build along with its likes.
func (h Handlers) Delete(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	buildID, err := pathBuildID(r)
	if err != nil {
		return err
	}

	var app AppDeleteBuild
	if err := signed.Decode(r, &app); err != nil {
		return err
	}

	td := messages.DeleteBuild.TypedData(map[string]any{
		"address": app.Address,
		"buildId": buildID,
	})
	if err := signed.Authorize(ctx, h.Auth, app, td, auth.RuleOwnerOrAdmin(buildID)); err != nil {
		return err
	}

	bld, err := h.queryBuild(ctx, buildID)
	if err != nil {
		return err
	}

	if err := h.Build.Delete(ctx, bld); err != nil {
		return fmt.Errorf("delete: buildID[%s]: %w", buildID, err)
	}

	h.Log.Infow("delete build", "traceid", v.TraceID, "address", app.Address, "buildid", buildID)
	h.publish("build.deleted", app.Address, buildID, v)

	return web.Respond(ctx, w, map[string]any{"build": toAppBuild(bld)}, http.StatusOK)
}

// Like toggles the signer's like on a build. The current state decides
// whether the signer must have signed a like or an unlike, so a signature
// cannot be replayed once the state has changed.
func (h Handlers) Like(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	buildID, err := pathBuildID(r)
	if err != nil {
		return err
	}

	var app AppLikeBuild
	if err := signed.Decode(r, &app); err != nil {
		return err
	}

	bld, err := h.queryBuild(ctx, buildID)
	if err != nil {
		return err
	}

	liked, err := h.Build.IsLiked(ctx, buildID, app.Address)
	if err != nil {
		return fmt.Errorf("like state: buildID[%s]: %w", buildID, err)
	}

	action := messages.LikeAction
	if liked {
		action = messages.UnlikeAction
	}

	td := messages.LikeBuild.TypedData(map[string]any{
		"action":  action,
		"address": app.Address,
		"buildId": buildID,
	})
	if err := signed.Authorize(ctx, h.Auth, app, td, auth.RuleRegistered); err != nil {
		return err
	}

	count := bld.LikeCount()
	switch liked {
	case true:
		if err := h.Build.Unlike(ctx, buildID, app.Address); err != nil {
			return fmt.Errorf("unlike: buildID[%s]: %w", buildID, err)
		}
		count--

	default:
		if err := h.Build.Like(ctx, buildID, app.Address, v.Now); err != nil {
			return fmt.Errorf("like: buildID[%s]: %w", buildID, err)
		}
		count++
	}

	h.publish("build."+action+"d", app.Address, buildID, v)

	resp := AppLike{
		BuildID:   buildID,
		Action:    action,
		Liked:     !liked,
		LikeCount: count,
	}

	return web.Respond(ctx, w, map[string]any{"like": resp}, http.StatusOK)
}

// Query returns a list of builds with paging.
func (h Handlers) Query(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	page, err := paging.Parse(r)
	if err != nil {
		return err
	}

	values := r.URL.Query()

	var filter build.QueryFilter
	if owner := values.Get("owner"); owner != "" {
		address, err := user.NormalizeAddress(owner)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		filter.OwnerAddress = &address
	}
	if typ := values.Get("buildType"); typ != "" {
		filter.Type = &typ
	}
	if category := values.Get("buildCategory"); category != "" {
		filter.Category = &category
	}
	if batchID := values.Get("batchId"); batchID != "" {
		filter.BatchID = &batchID
	}

	blds, err := h.Build.Query(ctx, filter, page.Number, page.Rows)
	if err != nil {
		return fmt.Errorf("unable to query for builds: %w", err)
	}

	return web.Respond(ctx, w, map[string]any{"builds": toAppBuilds(blds)}, http.StatusOK)
}

// QueryByID returns a build by its ID.
func (h Handlers) QueryByID(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	buildID, err := pathBuildID(r)
	if err != nil {
		return err
	}

	bld, err := h.queryBuild(ctx, buildID)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, map[string]any{"build": toAppBuild(bld)}, http.StatusOK)
}

// =============================================================================

func (h Handlers) queryBuild(ctx context.Context, buildID string) (build.Build, error) {
	bld, err := h.Build.QueryByID(ctx, buildID)
	if err != nil {
		if errors.Is(err, build.ErrNotFound) {
			return build.Build{}, errs.NewTrusted(build.ErrNotFound, http.StatusNotFound)
		}
		return build.Build{}, fmt.Errorf("querying build[%s]: %w", buildID, err)
	}

	return bld, nil
}

func (h Handlers) publish(typ string, actor string, buildID string, v *web.Values) {
	metrics.AddMutation(typ)
	h.Evts.Send(events.Event{
		Type:     typ,
		Actor:    actor,
		Resource: "build",
		ID:       buildID,
		Time:     v.Now,
	})
}

func pathBuildID(r *http.Request) (string, error) {
	buildID := web.Param(r, "buildId")
	if err := validate.CheckID(buildID); err != nil {
		return "", errs.NewTrusted(err, http.StatusBadRequest)
	}

	return buildID, nil
}
