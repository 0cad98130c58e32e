// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/yournet/ledger/foundation/blockchain/database"
	"github.com/yournet/ledger/foundation/blockchain/mempool"
	"github.com/yournet/ledger/foundation/blockchain/peer"
)

// Defaults used when the configuration leaves a value unset.
const (
	defaultPeerTimeout     = 5 * time.Second
	defaultMaxPeerRequests = 8
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining and chain resolution.
type Worker interface {
	Shutdown()
	SignalStartMining() *MiningJob
	SignalCancelMining()
	SignalResolve()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Host            string
	Difficulty      uint
	KnownPeers      *peer.PeerSet
	PeerTimeout     time.Duration
	MaxPeerRequests int
	Client          *http.Client
	EvHandler       EventHandler
}

// State manages the ledger, the pool of pending records and the set of
// known peers for a single node.
type State struct {
	mu sync.Mutex

	host            string
	peerTimeout     time.Duration
	maxPeerRequests int
	client          *http.Client
	evHandler       EventHandler

	knownPeers *peer.PeerSet
	db         *database.Database
	mempool    *mempool.Mempool

	Worker Worker
}

// New constructs a new node with a fresh genesis block.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.Difficulty > 64 {
		return nil, fmt.Errorf("difficulty %d is larger than the hash", cfg.Difficulty)
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	peerTimeout := cfg.PeerTimeout
	if peerTimeout <= 0 {
		peerTimeout = defaultPeerTimeout
	}

	maxPeerRequests := cfg.MaxPeerRequests
	if maxPeerRequests <= 0 {
		maxPeerRequests = defaultMaxPeerRequests
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}

	// Create the State to provide support for managing the blockchain.
	state := State{
		host:            peer.New(cfg.Host).Address,
		peerTimeout:     peerTimeout,
		maxPeerRequests: maxPeerRequests,
		client:          client,
		evHandler:       ev,

		knownPeers: knownPeers,
		db:         database.New(cfg.Difficulty, ev),
		mempool:    mempool.New(),
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// =============================================================================

// signalCancelMining stops any mining operation working against a chain tip
// that no longer exists.
func (s *State) signalCancelMining() {
	if s.Worker != nil {
		s.Worker.SignalCancelMining()
	}
}

// signalResolve asks the worker to run a consensus pass.
func (s *State) signalResolve() {
	if s.Worker != nil {
		s.Worker.SignalResolve()
	}
}
