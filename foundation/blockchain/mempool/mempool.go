// Package mempool maintains the pool of records waiting to be mined into
// a block.
package mempool

import (
	"sync"

	"github.com/yournet/ledger/foundation/blockchain/database"
)

// entry tracks a record with the sequence number it was submitted under.
type entry struct {
	seq    uint64
	record database.Record
}

// Mempool represents an ordered cache of records. Every submission gets a
// sequence number so a snapshot taken for mining can later be removed
// without touching records that arrived afterwards.
type Mempool struct {
	mu      sync.RWMutex
	pool    []entry
	lastSeq uint64
}

// New constructs a new empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of records in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Submit adds a record to the end of the pool and returns the new count.
func (mp *Mempool) Submit(record database.Record) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.lastSeq++
	mp.pool = append(mp.pool, entry{seq: mp.lastSeq, record: record})

	return len(mp.pool)
}

// Snapshot returns the records currently in the pool along with the
// sequence number of the last one. The sequence is passed to Commit once
// the records are part of the chain.
func (mp *Mempool) Snapshot() ([]database.Record, uint64) {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	if len(mp.pool) == 0 {
		return nil, 0
	}

	records := make([]database.Record, len(mp.pool))
	for i, e := range mp.pool {
		records[i] = e.record
	}

	return records, mp.pool[len(mp.pool)-1].seq
}

// Commit removes every record submitted up to and including the specified
// sequence number.
func (mp *Mempool) Commit(seq uint64) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	var i int
	for i < len(mp.pool) && mp.pool[i].seq <= seq {
		i++
	}

	remaining := make([]entry, len(mp.pool)-i)
	copy(remaining, mp.pool[i:])
	mp.pool = remaining

	return i
}

// Copy returns the records in the pool in submission order.
func (mp *Mempool) Copy() []database.Record {
	records, _ := mp.Snapshot()
	if records == nil {
		return []database.Record{}
	}

	return records
}

// Truncate clears all the records from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
