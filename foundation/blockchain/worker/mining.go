package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yournet/ledger/foundation/blockchain/database"
	"github.com/yournet/ledger/foundation/blockchain/state"
)

// miningOperations handles mining. Requests are served one at a time in the
// order they were queued.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case job := <-w.startMining:
			if w.isShutdown() {
				job.Complete(database.Block{}, state.ErrMiningCancelled)
				continue
			}
			block, err := w.runMiningOperation()
			job.Complete(block, err)

		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation takes all the records from the mempool and writes a
// new block to the database. Once the block is stored, a consensus pass
// runs and the block is announced to the peers if it survived.
func (w *Worker) runMiningOperation() (database.Block, error) {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	// Drain the cancel mining channel before starting.
	select {
	case <-w.cancelMining:
		w.evHandler("worker: runMiningOperation: MINING: drained cancel channel")
	default:
	}

	// Create a context so mining can be cancelled.
	ctx, cancel := context.WithCancel(w.ctx)
	defer cancel()

	// Can't return from this function until this G is complete.
	var wg sync.WaitGroup
	wg.Add(1)

	// This G exists to cancel the mining operation.
	go func() {
		defer wg.Done()

		select {
		case <-w.cancelMining:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: requested")
			cancel()
		case <-ctx.Done():
		}
	}()

	t := time.Now()
	block, err := w.state.MineNewBlock(ctx)
	w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]", time.Since(t))

	cancel()
	wg.Wait()

	if err != nil {
		switch {
		case errors.Is(err, state.ErrNoTransactions):
			w.evHandler("worker: runMiningOperation: MINING: no transactions in mempool")
		case errors.Is(err, context.Canceled):
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete")
			return database.Block{}, fmt.Errorf("%w: %w", state.ErrMiningCancelled, err)
		default:
			w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
		}
		return database.Block{}, err
	}

	// We mined a block. If a peer holds a longer chain the block is gone
	// and there is nothing to announce.
	replaced, err := w.state.Resolve(w.ctx)
	if err != nil {
		w.evHandler("worker: runMiningOperation: MINING: resolve: WARNING: %s", err)
	}
	if replaced {
		w.evHandler("worker: runMiningOperation: MINING: chain replaced by a peer, block not announced")
		return block, nil
	}

	// Propose the new block to the network. Log the error, but that's it.
	if err := w.state.NetSendBlockToPeers(w.ctx, block); err != nil {
		w.evHandler("worker: runMiningOperation: MINING: NetSendBlockToPeers: WARNING: %s", err)
	}

	return block, nil
}
