// Package usergrp maintains the group of handlers for user access.
package usergrp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/speedrunethereum/speedrun/business/core/batch"
	"github.com/speedrunethereum/speedrun/business/core/user"
	"github.com/speedrunethereum/speedrun/business/sys/auth"
	"github.com/speedrunethereum/speedrun/business/sys/messages"
	"github.com/speedrunethereum/speedrun/business/sys/zerion"
	"github.com/speedrunethereum/speedrun/business/web/errs"
	"github.com/speedrunethereum/speedrun/business/web/metrics"
	"github.com/speedrunethereum/speedrun/business/web/paging"
	"github.com/speedrunethereum/speedrun/business/web/signed"
	"github.com/speedrunethereum/speedrun/foundation/events"
	"github.com/speedrunethereum/speedrun/foundation/web"
	"go.uber.org/zap"
)

// OnchainFetcher retrieves the on-chain snapshot for an address.
type OnchainFetcher interface {
	Portfolio(ctx context.Context, address string) (json.RawMessage, error)
}

// Handlers manages the set of user endpoints.
type Handlers struct {
	Log     *zap.SugaredLogger
	User    *user.Core
	Batch   *batch.Core
	Auth    *auth.Auth
	Onchain OnchainFetcher
	Evts    *events.Events
}

// Register creates the user for the signer if they do not exist yet.
func (h Handlers) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var app AppRegister
	if err := signed.Decode(r, &app); err != nil {
		return err
	}

	td := messages.Register.TypedData(map[string]any{
		"description": messages.RegisterDescription,
	})
	if err := signed.Authorize(ctx, h.Auth, app, td, auth.RuleAny); err != nil {
		return err
	}

	usr, created, err := h.User.Register(ctx, user.NewUser{Address: app.Address}, v.Now)
	if err != nil {
		return fmt.Errorf("register: address[%s]: %w", app.Address, err)
	}

	if !created {
		return web.Respond(ctx, w, map[string]any{"user": toAppUser(usr)}, http.StatusOK)
	}

	h.Log.Infow("register", "traceid", v.TraceID, "address", usr.Address)
	h.publish("user.registered", usr.Address, usr.Address, v)

	return web.Respond(ctx, w, map[string]any{"user": toAppUser(usr)}, http.StatusCreated)
}

// Update changes the admin controlled fields of a user.
func (h Handlers) Update(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	address, err := pathAddress(r)
	if err != nil {
		return err
	}

	var app AppUpdateUser
	if err := signed.Decode(r, &app); err != nil {
		return err
	}

	td := messages.UpdateUser.TypedData(map[string]any{
		"address":     app.Address,
		"userAddress": address,
		"role":        app.Role,
		"batchId":     app.BatchID,
		"batchStatus": app.BatchStatus,
	})
	if err := signed.Authorize(ctx, h.Auth, app, td, auth.RuleAdmin); err != nil {
		return err
	}

	usr, err := h.queryUser(ctx, address)
	if err != nil {
		return err
	}

	role, err := user.ParseRole(app.Role)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	var status user.BatchStatus
	if app.BatchStatus != "" {
		if status, err = user.ParseBatchStatus(app.BatchStatus); err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
	}

	if app.BatchID != "" {
		if _, err := h.Batch.QueryByID(ctx, app.BatchID); err != nil {
			if errors.Is(err, batch.ErrNotFound) {
				return errs.NewTrusted(batch.ErrNotFound, http.StatusNotFound)
			}
			return fmt.Errorf("querying batch[%s]: %w", app.BatchID, err)
		}
	}

	uu := user.UpdateUser{
		Role:        &role,
		BatchID:     &app.BatchID,
		BatchStatus: &status,
	}

	usr, err = h.User.Update(ctx, usr, uu, v.Now)
	if err != nil {
		return fmt.Errorf("update: address[%s]: %w", address, err)
	}

	h.Log.Infow("update user", "traceid", v.TraceID, "admin", app.Address, "address", address, "role", role.Name())
	h.publish("user.updated", app.Address, address, v)

	return web.Respond(ctx, w, map[string]any{"user": toAppUser(usr)}, http.StatusOK)
}

// UpdateOnchainData refreshes the on-chain snapshot held for a user.
func (h Handlers) UpdateOnchainData(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	address, err := pathAddress(r)
	if err != nil {
		return err
	}

	var app AppUpdateOnchainData
	if err := signed.Decode(r, &app); err != nil {
		return err
	}

	td := messages.UpdateOnchainData.TypedData(map[string]any{
		"address":     app.Address,
		"userAddress": address,
	})
	if err := signed.Authorize(ctx, h.Auth, app, td, auth.RuleSelfOrAdmin(address)); err != nil {
		return err
	}

	usr, err := h.queryUser(ctx, address)
	if err != nil {
		return err
	}

	data, err := h.Onchain.Portfolio(ctx, address)
	if err != nil {
		if errors.Is(err, zerion.ErrDisabled) {
			return errs.NewTrusted(err, http.StatusServiceUnavailable)
		}
		return fmt.Errorf("portfolio: address[%s]: %w", address, err)
	}

	usr, err = h.User.UpdateOnchainData(ctx, usr, data, v.Now)
	if err != nil {
		return fmt.Errorf("update onchain data: address[%s]: %w", address, err)
	}

	h.publish("user.onchain-updated", app.Address, address, v)

	return web.Respond(ctx, w, map[string]any{"user": toAppUser(usr)}, http.StatusOK)
}

// UpdateENS stores the ENS name and avatar the client resolved for a user.
func (h Handlers) UpdateENS(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	address, err := pathAddress(r)
	if err != nil {
		return err
	}

	var app AppUpdateENS
	if err := signed.Decode(r, &app); err != nil {
		return err
	}

	td := messages.UpdateENS.TypedData(map[string]any{
		"address":     app.Address,
		"userAddress": address,
		"ensName":     app.EnsName,
		"ensAvatar":   app.EnsAvatar,
	})
	if err := signed.Authorize(ctx, h.Auth, app, td, auth.RuleSelfOrAdmin(address)); err != nil {
		return err
	}

	usr, err := h.queryUser(ctx, address)
	if err != nil {
		return err
	}

	up := user.UpdateProfile{
		EnsName:   &app.EnsName,
		EnsAvatar: &app.EnsAvatar,
	}

	usr, err = h.User.UpdateProfile(ctx, usr, up, v.Now)
	if err != nil {
		return fmt.Errorf("update ens: address[%s]: %w", address, err)
	}

	h.publish("user.ens-updated", app.Address, address, v)

	return web.Respond(ctx, w, map[string]any{"user": toAppUser(usr)}, http.StatusOK)
}

// UpdateSocials replaces the social handles and location of a user.
func (h Handlers) UpdateSocials(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	address, err := pathAddress(r)
	if err != nil {
		return err
	}

	var app AppUpdateSocials
	if err := signed.Decode(r, &app); err != nil {
		return err
	}

	td := messages.UpdateSocials.TypedData(map[string]any{
		"address":     app.Address,
		"userAddress": address,
		"telegram":    app.Telegram,
		"twitter":     app.Twitter,
		"github":      app.Github,
		"email":       app.Email,
		"instagram":   app.Instagram,
		"discord":     app.Discord,
		"website":     app.Website,
		"location":    app.Location,
	})
	if err := signed.Authorize(ctx, h.Auth, app, td, auth.RuleSelfOrAdmin(address)); err != nil {
		return err
	}

	usr, err := h.queryUser(ctx, address)
	if err != nil {
		return err
	}

	usr, err = h.User.UpdateProfile(ctx, usr, app.toUpdateProfile(), v.Now)
	if err != nil {
		return fmt.Errorf("update socials: address[%s]: %w", address, err)
	}

	h.publish("user.socials-updated", app.Address, address, v)

	return web.Respond(ctx, w, map[string]any{"user": toAppUser(usr)}, http.StatusOK)
}

// Query returns a list of users with paging.
func (h Handlers) Query(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	page, err := paging.Parse(r)
	if err != nil {
		return err
	}

	var filter user.QueryFilter
	if role := r.URL.Query().Get("role"); role != "" {
		rl, err := user.ParseRole(role)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		filter.Role = &rl
	}
	if batchID := r.URL.Query().Get("batchId"); batchID != "" {
		filter.BatchID = &batchID
	}

	usrs, err := h.User.Query(ctx, filter, page.Number, page.Rows)
	if err != nil {
		return fmt.Errorf("unable to query for users: %w", err)
	}

	total, err := h.User.Count(ctx, filter)
	if err != nil {
		return fmt.Errorf("unable to count users: %w", err)
	}

	resp := map[string]any{
		"users": toAppUsers(usrs),
		"total": total,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// QueryByAddress returns a user by its address.
func (h Handlers) QueryByAddress(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address, err := pathAddress(r)
	if err != nil {
		return err
	}

	usr, err := h.queryUser(ctx, address)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, map[string]any{"user": toAppUser(usr)}, http.StatusOK)
}

// =============================================================================

func (h Handlers) queryUser(ctx context.Context, address string) (user.User, error) {
	usr, err := h.User.QueryByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, errs.NewTrusted(user.ErrNotFound, http.StatusNotFound)
		}
		return user.User{}, fmt.Errorf("querying user[%s]: %w", address, err)
	}

	return usr, nil
}

func (h Handlers) publish(typ string, actor string, address string, v *web.Values) {
	metrics.AddMutation(typ)
	h.Evts.Send(events.Event{
		Type:     typ,
		Actor:    actor,
		Resource: "user",
		ID:       address,
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
