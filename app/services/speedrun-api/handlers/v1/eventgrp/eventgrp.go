// Package eventgrp maintains the handler that streams the activity feed.
package eventgrp

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/speedrunethereum/speedrun/foundation/events"
	"github.com/speedrunethereum/speedrun/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the activity feed endpoint.
type Handlers struct {
	Log  *zap.SugaredLogger
	WS   websocket.Upgrader
	Evts *events.Events
}

// Events upgrades the connection to a websocket and writes every activity
// event to it until the client goes away or the service shuts down.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	h.Log.Infow("events", "traceid", v.TraceID, "status", "subscribed", "remote", r.RemoteAddr)

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}

		case <-ctx.Done():
			return nil
		}
	}
}
