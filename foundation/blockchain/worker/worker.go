// Package worker implements mining and chain resolution for the ledger.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/yournet/ledger/foundation/blockchain/database"
	"github.com/yournet/ledger/foundation/blockchain/state"
)

// Defaults used when the configuration leaves a value unset.
const (
	defaultResolveInterval   = time.Minute
	defaultMaxMiningRequests = 10
)

// Config represents the settings for the background operations.
type Config struct {

	// ResolveInterval is the cadence of the consensus pass against known
	// peers. A negative value turns the periodic pass off.
	ResolveInterval time.Duration

	// MaxMiningRequests is the number of mining requests that can be
	// queued before new requests are refused.
	MaxMiningRequests int

	EvHandler state.EventHandler
}

// =============================================================================

// Worker manages the POW and consensus workflows for the ledger.
type Worker struct {
	state        *state.State
	wg           sync.WaitGroup
	ticker       *time.Ticker
	ctx          context.Context
	cancel       context.CancelFunc
	shut         chan struct{}
	startMining  chan *state.MiningJob
	cancelMining chan struct{}
	resolve      chan struct{}
	evHandler    state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, cfg Config) {
	evHandler := cfg.EvHandler
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	maxMiningRequests := cfg.MaxMiningRequests
	if maxMiningRequests <= 0 {
		maxMiningRequests = defaultMaxMiningRequests
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := Worker{
		state:        st,
		ctx:          ctx,
		cancel:       cancel,
		shut:         make(chan struct{}),
		startMining:  make(chan *state.MiningJob, maxMiningRequests),
		cancelMining: make(chan struct{}, 1),
		resolve:      make(chan struct{}, 1),
		evHandler:    evHandler,
	}

	switch {
	case cfg.ResolveInterval == 0:
		w.ticker = time.NewTicker(defaultResolveInterval)
	case cfg.ResolveInterval > 0:
		w.ticker = time.NewTicker(cfg.ResolveInterval)
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Update this node before starting any support G's.
	w.runResolveOperation()

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
		w.resolveOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work. Mining requests still
// in the queue are completed as cancelled.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	if w.ticker != nil {
		w.evHandler("worker: shutdown: stop ticker")
		w.ticker.Stop()
	}

	w.evHandler("worker: shutdown: signal cancel mining")
	w.SignalCancelMining()

	w.evHandler("worker: shutdown: terminate goroutines")
	w.cancel()
	close(w.shut)
	w.wg.Wait()

	for {
		select {
		case job := <-w.startMining:
			job.Complete(database.Block{}, state.ErrMiningCancelled)
		default:
			return
		}
	}
}

// SignalStartMining queues a mining operation and returns the handle the
// caller can wait on. When the queue is full the job is completed right
// away with state.ErrMiningBusy.
func (w *Worker) SignalStartMining() *state.MiningJob {
	job := state.NewMiningJob()

	if w.isShutdown() {
		job.Complete(database.Block{}, state.ErrMiningCancelled)
		return job
	}

	select {
	case w.startMining <- job:
		w.evHandler("worker: SignalStartMining: mining signaled")
	default:
		w.evHandler("worker: SignalStartMining: queue full, mining request refused")
		job.Complete(database.Block{}, state.ErrMiningBusy)
	}

	return job
}

// SignalCancelMining signals the G executing the runMiningOperation function
// to stop immediately.
func (w *Worker) SignalCancelMining() {
	select {
	case w.cancelMining <- struct{}{}:
	default:
	}
	w.evHandler("worker: SignalCancelMining: MINING: CANCEL: signaled")
}

// SignalResolve requests a consensus pass. If one is already pending the
// request is folded into it.
func (w *Worker) SignalResolve() {
	select {
	case w.resolve <- struct{}{}:
	default:
	}
	w.evHandler("worker: SignalResolve: resolve signaled")
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
