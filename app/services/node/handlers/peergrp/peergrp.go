// Package peergrp maintains the group of handlers for node to node access.
package peergrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/yournet/ledger/business/sys/validate"
	"github.com/yournet/ledger/business/web/errs"
	"github.com/yournet/ledger/foundation/blockchain/database"
	"github.com/yournet/ledger/foundation/blockchain/peer"
	"github.com/yournet/ledger/foundation/blockchain/state"
	"github.com/yournet/ledger/foundation/web"
	"go.uber.org/zap"
)

// ErrBlockDiscarded is reported to a peer whose block failed validation.
var ErrBlockDiscarded = errors.New("The block was discarded by the node")

// Handlers manages the set of peer endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// RegisterNode adds the calling node to the known peers and returns the
// chain so the caller can sync with it.
func (h Handlers) RegisterNode(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var na NodeAddress
	if err := web.Decode(r, &na); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(na); err != nil {
		return fmt.Errorf("validating data: %w", err)
	}

	if h.State.AddKnownPeer(peer.New(na.NodeAddress)) {
		h.Log.Infow("register node", "traceid", v.TraceID, "peer", na.NodeAddress)
	}

	return web.Respond(ctx, w, h.State.RetrieveChain(), http.StatusOK)
}

// RegisterWith registers this node with the specified remote node and
// takes on its chain and peers.
func (h Handlers) RegisterWith(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var na NodeAddress
	if err := web.Decode(r, &na); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(na); err != nil {
		return fmt.Errorf("validating data: %w", err)
	}

	if err := h.State.RegisterWith(ctx, na.NodeAddress); err != nil {
		switch {
		case errors.Is(err, state.ErrPeerUnavailable), errors.Is(err, state.ErrPeerRejected):
			return errs.NewTrusted(err, http.StatusBadGateway)

		case errors.Is(err, database.ErrChainIntegrity):
			return errs.NewTrusted(err, http.StatusConflict)
		}

		return fmt.Errorf("register with %s: %w", na.NodeAddress, err)
	}

	h.Log.Infow("register with", "traceid", v.TraceID, "peer", na.NodeAddress, "length", h.State.QueryChainLength())

	return web.Respond(ctx, w, status{Status: "Registration successful"}, http.StatusOK)
}

// AddBlock takes a block mined by a peer, validates it and if that passes,
// adds the block to the local chain.
func (h Handlers) AddBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var block database.Block
	if err := web.Decode(r, &block); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if _, err := h.State.ProcessProposedBlock(block); err != nil {
		h.Log.Infow("add block", "traceid", v.TraceID, "index", block.Index, "hash", block.Hash, "discarded", err)
		return errs.NewTrusted(ErrBlockDiscarded, http.StatusBadRequest)
	}

	h.Log.Infow("add block", "traceid", v.TraceID, "index", block.Index, "hash", block.Hash)

	return web.Respond(ctx, w, status{Status: "Block added to the chain"}, http.StatusCreated)
}
