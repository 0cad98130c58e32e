package peergrp

import (
	"net/http"

	"github.com/yournet/ledger/foundation/blockchain/state"
	"github.com/yournet/ledger/foundation/web"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Routes binds all the peer routes.
func Routes(app *web.App, cfg Config) {
	hdl := Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodPost, "", "/register_node", hdl.RegisterNode)
	app.Handle(http.MethodPost, "", "/register_with", hdl.RegisterWith)
	app.Handle(http.MethodPost, "", "/add_block", hdl.AddBlock)
}
