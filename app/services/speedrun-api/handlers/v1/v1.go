// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"context"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/speedrunethereum/speedrun/app/services/speedrun-api/handlers/v1/batchgrp"
	"github.com/speedrunethereum/speedrun/app/services/speedrun-api/handlers/v1/buildgrp"
	"github.com/speedrunethereum/speedrun/app/services/speedrun-api/handlers/v1/challengegrp"
	"github.com/speedrunethereum/speedrun/app/services/speedrun-api/handlers/v1/eventgrp"
	"github.com/speedrunethereum/speedrun/app/services/speedrun-api/handlers/v1/notegrp"
	"github.com/speedrunethereum/speedrun/app/services/speedrun-api/handlers/v1/usergrp"
	"github.com/speedrunethereum/speedrun/business/core/batch"
	"github.com/speedrunethereum/speedrun/business/core/batch/stores/batchdb"
	"github.com/speedrunethereum/speedrun/business/core/build"
	"github.com/speedrunethereum/speedrun/business/core/build/stores/builddb"
	"github.com/speedrunethereum/speedrun/business/core/challenge"
	"github.com/speedrunethereum/speedrun/business/core/challenge/stores/challengedb"
	"github.com/speedrunethereum/speedrun/business/core/note"
	"github.com/speedrunethereum/speedrun/business/core/note/stores/notedb"
	"github.com/speedrunethereum/speedrun/business/core/user"
	"github.com/speedrunethereum/speedrun/business/core/user/stores/userdb"
	"github.com/speedrunethereum/speedrun/business/sys/auth"
	"github.com/speedrunethereum/speedrun/foundation/events"
	"github.com/speedrunethereum/speedrun/foundation/web"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log         *zap.SugaredLogger
	DB          *gorm.DB
	Evts        *events.Events
	Onchain     usergrp.OnchainFetcher
	CorsOrigins []string
}

// Routes binds all the version 1 routes.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	usrCore := user.NewCore(userdb.NewStore(cfg.Log, cfg.DB))
	bldCore := build.NewCore(builddb.NewStore(cfg.Log, cfg.DB))
	bchCore := batch.NewCore(batchdb.NewStore(cfg.Log, cfg.DB))
	ntCore := note.NewCore(notedb.NewStore(cfg.Log, cfg.DB))
	chlCore := challenge.NewCore(challengedb.NewStore(cfg.Log, cfg.DB))

	ath := auth.New(cfg.Log, usrCore, bldCore)

	// Answer preflight requests for every route.
	preflight := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
	app.Handle(http.MethodOptions, "", "/*path", preflight)

	// Register user endpoints.
	ugh := usergrp.Handlers{
		Log:     cfg.Log,
		User:    usrCore,
		Batch:   bchCore,
		Auth:    ath,
		Onchain: cfg.Onchain,
		Evts:    cfg.Evts,
	}
	app.Handle(http.MethodGet, version, "/users", ugh.Query)
	app.Handle(http.MethodGet, version, "/users/:address", ugh.QueryByAddress)
	app.Handle(http.MethodPost, version, "/users/register", ugh.Register)
	app.Handle(http.MethodPut, version, "/users/:address/update", ugh.Update)
	app.Handle(http.MethodPut, version, "/users/:address/update-onchain-data", ugh.UpdateOnchainData)
	app.Handle(http.MethodPut, version, "/users/:address/update-ens", ugh.UpdateENS)
	app.Handle(http.MethodPut, version, "/users/:address/update-socials", ugh.UpdateSocials)

	// Register build endpoints.
	bgh := buildgrp.Handlers{
		Log:   cfg.Log,
		Build: bldCore,
		Auth:  ath,
		Evts:  cfg.Evts,
	}
	app.Handle(http.MethodGet, version, "/builds", bgh.Query)
	app.Handle(http.MethodGet, version, "/builds/:buildId", bgh.QueryByID)
	app.Handle(http.MethodPost, version, "/users/builds/submit", bgh.Submit)
	app.Handle(http.MethodPut, version, "/users/builds/:buildId/update", bgh.Update)
	app.Handle(http.MethodDelete, version, "/users/builds/:buildId/delete", bgh.Delete)
	app.Handle(http.MethodPost, version, "/users/builds/:buildId/like", bgh.Like)

	// Register batch endpoints.
	bch := batchgrp.Handlers{
		Log:   cfg.Log,
		Batch: bchCore,
		User:  usrCore,
		Auth:  ath,
		Evts:  cfg.Evts,
	}
	app.Handle(http.MethodGet, version, "/batches", bch.Query)
	app.Handle(http.MethodGet, version, "/batches/:batchId", bch.QueryByID)
	app.Handle(http.MethodPost, version, "/batches/create", bch.Create)
	app.Handle(http.MethodPut, version, "/batches/:batchId/update", bch.Update)

	// Register note endpoints.
	ngh := notegrp.Handlers{
		Log:  cfg.Log,
		Note: ntCore,
		User: usrCore,
		Auth: ath,
		Evts: cfg.Evts,
	}
	app.Handle(http.MethodPost, version, "/users/:address/notes", ngh.Create)
	app.Handle(http.MethodPost, version, "/users/:address/notes/list", ngh.List)
	app.Handle(http.MethodDelete, version, "/users/:address/notes/:noteId", ngh.Delete)

	// Register challenge endpoints.
	cgh := challengegrp.Handlers{
		Log:       cfg.Log,
		Challenge: chlCore,
		Auth:      ath,
		Evts:      cfg.Evts,
	}
	app.Handle(http.MethodGet, version, "/challenges", cgh.Catalog)
	app.Handle(http.MethodPost, version, "/challenges/:challengeId/submit", cgh.Submit)
	app.Handle(http.MethodGet, version, "/users/:address/challenges", cgh.QueryByUser)
	app.Handle(http.MethodGet, version, "/submissions", cgh.QueryByReviewAction)
	app.Handle(http.MethodPut, version, "/submissions/:submissionId/review", cgh.Review)

	// Register the activity feed.
	egh := eventgrp.Handlers{
		Log:  cfg.Log,
		Evts: cfg.Evts,
		WS: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(cfg.CorsOrigins, "*") || slices.Contains(cfg.CorsOrigins, origin)
			},
		},
	}
	app.Handle(http.MethodGet, version, "/events", egh.Events)
}
