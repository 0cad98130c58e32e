package ledgergrp

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

// Routes binds all the ledger routes.
func Routes(app *web.App, cfg Config) {
	hdl := Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodPost, "", "/new_transaction", hdl.SubmitRecord)
	app.Handle(http.MethodGet, "", "/chain", hdl.Chain)
	app.Handle(http.MethodGet, "", "/block/:index", hdl.Block)
	app.Handle(http.MethodGet, "", "/mine", hdl.Mine)
	app.Handle(http.MethodGet, "", "/pending-tx", hdl.Pending)
}
