// Package challengegrp maintains the group of handlers for challenges and
// the review of their submissions.
package challengegrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/speedrunethereum/speedrun/business/core/challenge"
	"github.com/speedrunethereum/speedrun/business/core/user"
	"github.com/speedrunethereum/speedrun/business/sys/auth"
	"github.com/speedrunethereum/speedrun/business/sys/messages"
	"github.com/speedrunethereum/speedrun/business/web/errs"
	"github.com/speedrunethereum/speedrun/business/web/metrics"
	"github.com/speedrunethereum/speedrun/business/web/paging"
	"github.com/speedrunethereum/speedrun/business/web/signed"
	"github.com/speedrunethereum/speedrun/foundation/events"
	"github.com/speedrunethereum/speedrun/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of challenge endpoints.
type Handlers struct {
	Log       *zap.SugaredLogger
	Challenge *challenge.Core
	Auth      *auth.Auth
	Evts      *events.Events
}

// Catalog returns the challenges of the curriculum.
func (h Handlers) Catalog(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, map[string]any{"challenges": challenge.Catalog()}, http.StatusOK)
}

// Submit records the signer's attempt at a challenge.
func (h Handlers) Submit(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	challengeID := web.Param(r, "challengeId")

	var app AppNewSubmission
	if err := signed.Decode(r, &app); err != nil {
		return err
	}

	td := messages.SubmitChallenge.TypedData(map[string]any{
		"address":     app.Address,
		"challengeId": challengeID,
		"contractUrl": app.ContractURL,
		"frontendUrl": app.FrontendURL,
	})
	if err := signed.Authorize(ctx, h.Auth, app, td, auth.RuleRegistered); err != nil {
		return err
	}

	ns := challenge.NewSubmission{
		UserAddress: app.Address,
		ChallengeID: challengeID,
		ContractURL: app.ContractURL,
		FrontendURL: app.FrontendURL,
	}

	sub, err := h.Challenge.Submit(ctx, ns, v.Now)
	if err != nil {
		switch {
		case errors.Is(err, challenge.ErrUnknownChallenge):
			return errs.NewTrusted(challenge.ErrUnknownChallenge, http.StatusNotFound)
		case errors.Is(err, challenge.ErrAlreadyAccepted):
			return errs.NewTrusted(challenge.ErrAlreadyAccepted, http.StatusConflict)
		}
		return fmt.Errorf("submit: challenge[%s]: %w", challengeID, err)
	}

	h.Log.Infow("submit challenge", "traceid", v.TraceID, "address", app.Address, "challenge", challengeID, "submissionid", sub.ID)
	h.publish("challenge.submitted", app.Address, sub.ID, v)

	return web.Respond(ctx, w, map[string]any{"submission": toAppSubmission(sub)}, http.StatusCreated)
}

// Review applies an admin's outcome to a pending submission.
func (h Handlers) Review(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	param := web.Param(r, "submissionId")

	submissionID, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid submission id %q", param), http.StatusBadRequest)
	}

	var app AppReview
	if err := signed.Decode(r, &app); err != nil {
		return err
	}

	td := messages.ReviewSubmission.TypedData(map[string]any{
		"address":       app.Address,
		"submissionId":  param,
		"reviewAction":  app.ReviewAction,
		"reviewComment": app.ReviewComment,
	})
	if err := signed.Authorize(ctx, h.Auth, app, td, auth.RuleAdmin); err != nil {
		return err
	}

	sub, err := h.Challenge.QueryByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, challenge.ErrNotFound) {
			return errs.NewTrusted(challenge.ErrNotFound, http.StatusNotFound)
		}
		return fmt.Errorf("querying submission[%d]: %w", submissionID, err)
	}

	action, err := challenge.ParseReviewAction(app.ReviewAction)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	rv := challenge.Review{
		ReviewerAddress: app.Address,
		Action:          action,
		Comment:         app.ReviewComment,
	}

	sub, err = h.Challenge.Review(ctx, sub, rv, v.Now)
	if err != nil {
		switch {
		case errors.Is(err, challenge.ErrAlreadyReviewed):
			return errs.NewTrusted(challenge.ErrAlreadyReviewed, http.StatusConflict)
		case errors.Is(err, challenge.ErrInvalidReview):
			return errs.NewTrusted(challenge.ErrInvalidReview, http.StatusBadRequest)
		}
		return fmt.Errorf("review: submission[%d]: %w", submissionID, err)
	}

	h.Log.Infow("review submission", "traceid", v.TraceID, "admin", app.Address, "submissionid", sub.ID, "action", action.Name())
	h.publish("challenge.reviewed", app.Address, sub.ID, v)

	return web.Respond(ctx, w, map[string]any{"submission": toAppSubmission(sub)}, http.StatusOK)
}

// QueryByReviewAction returns the submissions in a review state, oldest
// first. Without a filter the pending queue is returned.
func (h Handlers) QueryByReviewAction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	page, err := paging.Parse(r)
	if err != nil {
		return err
	}

	action := challenge.ReviewSubmitted
	if value := r.URL.Query().Get("reviewAction"); value != "" {
		if action, err = challenge.ParseReviewAction(value); err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
	}

	subs, err := h.Challenge.QueryByReviewAction(ctx, action, page.Number, page.Rows)
	if err != nil {
		return fmt.Errorf("unable to query for submissions: %w", err)
	}

	return web.Respond(ctx, w, map[string]any{"submissions": toAppSubmissions(subs)}, http.StatusOK)
}

// QueryByUser returns the latest submission of each challenge a user
// attempted.
func (h Handlers) QueryByUser(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address, err := user.NormalizeAddress(web.Param(r, "address"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	subs, err := h.Challenge.QueryLatestByUser(ctx, address)
	if err != nil {
		return fmt.Errorf("unable to query challenges: address[%s]: %w", address, err)
	}

	return web.Respond(ctx, w, map[string]any{"challenges": toAppSubmissions(subs)}, http.StatusOK)
}

// =============================================================================

func (h Handlers) publish(typ string, actor string, submissionID uint64, v *web.Values) {
	metrics.AddMutation(typ)
	h.Evts.Send(events.Event{
		Type:     typ,
		Actor:    actor,
		Resource: "submission",
		ID:       strconv.FormatUint(submissionID, 10),
		Time:     v.Now,
	})
}
