// Package ledgergrp maintains the group of handlers clients use to post
// content and read the ledger.
package ledgergrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/yournet/ledger/business/sys/validate"
	"github.com/yournet/ledger/business/web/errs"
	"github.com/yournet/ledger/foundation/blockchain/database"
	"github.com/yournet/ledger/foundation/blockchain/state"
	"github.com/yournet/ledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// SubmitRecord adds a new record to the pool of pending records.
func (h Handlers) SubmitRecord(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var nr NewRecord
	if err := web.Decode(r, &nr); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(nr); err != nil {
		return fmt.Errorf("validating data: %w", err)
	}

	rec := h.State.SubmitRecord(nr.Author, nr.Content)
	h.Log.Infow("submit record", "traceid", v.TraceID, "author", rec.Author, "timestamp", rec.TimeStamp)

	return web.Respond(ctx, w, status{Status: "Success"}, http.StatusCreated)
}

// Chain returns the full ledger and the peers this node knows about.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveChain(), http.StatusOK)
}

// Block returns the block stored at the specified index.
func (h Handlers) Block(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.ParseUint(web.Param(r, "index"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid block index: %w", err), http.StatusBadRequest)
	}

	block, err := h.State.QueryBlock(index)
	if err != nil {
		if errors.Is(err, database.ErrBlockNotFound) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return fmt.Errorf("querying block %d: %w", index, err)
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// Pending returns the records waiting to be mined.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, pending(h.State.RetrieveMempool()), http.StatusOK)
}

// Mine asks the worker to mine the pending records. By default the call
// waits for the outcome, with wait=false it returns once the request is
// queued.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	if h.State.Worker == nil {
		return web.NewShutdownError("mining worker is not running")
	}

	job := h.State.Worker.SignalStartMining()

	if r.URL.Query().Get("wait") == "false" {
		select {
		case <-job.Done():
		default:
			return web.Respond(ctx, w, status{Status: "mining started"}, http.StatusAccepted)
		}
	}

	block, err := job.Wait(ctx)
	if err != nil {
		switch {
		case errors.Is(err, state.ErrNoTransactions):
			return web.Respond(ctx, w, status{Status: "No transactions to mine"}, http.StatusOK)

		case errors.Is(err, state.ErrMiningBusy):
			return errs.NewTrusted(err, http.StatusServiceUnavailable)

		case errors.Is(err, state.ErrMiningCancelled):
			return errs.NewTrusted(err, http.StatusConflict)
		}

		return fmt.Errorf("mining: %w", err)
	}

	h.Log.Infow("mine", "traceid", v.TraceID, "index", block.Index, "hash", block.Hash)

	resp := mined{
		Status: fmt.Sprintf("Block #%d is mined.", block.Index),
		Index:  block.Index,
		Hash:   block.Hash,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
