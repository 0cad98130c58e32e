package eventgrp

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/yournet/ledger/foundation/events"
	"github.com/yournet/ledger/foundation/web"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log  *zap.SugaredLogger
	Evts *events.Events
}

// Routes binds all the event routes.
func Routes(app *web.App, cfg Config) {
	hdl := Handlers{
		Log:  cfg.Log,
		WS:   websocket.Upgrader{},
		Evts: cfg.Evts,
	}

	app.Handle(http.MethodGet, "", "/events", hdl.Events)
}
