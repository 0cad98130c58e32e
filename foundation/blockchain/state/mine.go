package state

import (
	"context"
	"errors"
	"sync"

	"github.com/yournet/ledger/foundation/blockchain/database"
)

// ErrNoTransactions is returned when a block is requested to be created
// and there are no records in the pool.
var ErrNoTransactions = errors.New("no transactions to mine")

// ErrMiningBusy is returned when too many mining requests are pending.
var ErrMiningBusy = errors.New("too many pending mining requests")

// ErrMiningCancelled is returned when the chain changed underneath a mining
// operation. The records stay in the pool.
var ErrMiningCancelled = errors.New("mining cancelled, the chain changed")

// =============================================================================

// MiningJob is a handle on a requested mining operation. The operation runs
// in the background and the job is completed exactly once.
type MiningJob struct {
	done  chan struct{}
	once  sync.Once
	block database.Block
	err   error
}

// NewMiningJob constructs a job that hasn't completed yet.
func NewMiningJob() *MiningJob {
	return &MiningJob{
		done: make(chan struct{}),
	}
}

// Complete records the outcome of the operation and releases any waiters.
// Calls after the first are ignored.
func (j *MiningJob) Complete(block database.Block, err error) {
	j.once.Do(func() {
		j.block = block
		j.err = err
		close(j.done)
	})
}

// Done returns a channel that's closed when the job completes.
func (j *MiningJob) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job completes or the context is cancelled.
func (j *MiningJob) Wait(ctx context.Context) (database.Block, error) {
	select {
	case <-j.done:
		return j.block, j.err
	case <-ctx.Done():
		return database.Block{}, ctx.Err()
	}
}

// =============================================================================

// MineNewBlock attempts to create a new block with a proper hash that can
// become the next block in the chain. The records are fixed by a snapshot of
// the pool taken before the work starts, records that arrive later wait for
// the next block.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: check mempool count")

	records, seq := s.mempool.Snapshot()
	if len(records) == 0 {
		return database.Block{}, ErrNoTransactions
	}

	s.evHandler("state: MineNewBlock: MINING: perform POW: records[%d]", len(records))

	// Attempt to create a new block by solving the POW puzzle. This can be
	// cancelled and holds no locks so the chain can be read meanwhile.
	block := database.NewBlock(s.db.LatestBlock(), records)
	hash, err := block.PerformPOW(ctx, s.db.Difficulty(), s.evHandler)
	if err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.evHandler("state: MineNewBlock: MINING: update local state")

	return s.commitMinedBlock(block, hash, seq)
}

// commitMinedBlock appends the block and removes its records from the pool.
func (s *State) commitMinedBlock(block database.Block, hash string, seq uint64) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.db.Append(block, hash)
	if err != nil {
		return database.Block{}, err
	}

	removed := s.mempool.Commit(seq)
	s.evHandler("viewer: block mined: blk[%d]: hash[%s]: records[%d]", stored.Index, stored.Hash, removed)

	return stored, nil
}
