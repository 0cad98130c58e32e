// Package database maintains the in memory ledger: the ordered, hash linked
// sequence of blocks along with the rules for extending and replacing it.
package database

import (
	"errors"
	"fmt"
	"sync"
)

// ErrChainIntegrity is returned when a candidate chain fails validation at
// any position. The candidate is rejected as a whole.
var ErrChainIntegrity = errors.New("chain integrity")

// ErrChainNotLonger is returned when a candidate chain is not strictly longer
// than the local chain and is therefore not adopted.
var ErrChainNotLonger = errors.New("chain is not longer than the local chain")

// ErrBlockNotFound is returned when a block index is outside the chain.
var ErrBlockNotFound = errors.New("block not found")

// =============================================================================

// Database manages the chain of blocks held by this node. The chain always
// holds at least the genesis block.
type Database struct {
	mu         sync.RWMutex
	difficulty uint
	blocks     []Block
	evHandler  func(v string, args ...any)
}

// New constructs a ledger with a freshly generated genesis block.
func New(difficulty uint, evHandler func(v string, args ...any)) *Database {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	return &Database{
		difficulty: difficulty,
		blocks:     []Block{Genesis()},
		evHandler:  ev,
	}
}

// Difficulty returns the number of leading zeros a block hash requires.
func (db *Database) Difficulty() uint {
	return db.difficulty
}

// Append validates the block against the claimed hash and the latest block
// in the chain. If validation passes the block is stored with the hash set.
// The stored copy is returned.
func (db *Database) Append(block Block, hash string) (Block, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	nb := block.Clone()
	nb.Hash = hash

	latestBlock := db.blocks[len(db.blocks)-1]
	if err := nb.ValidateBlock(latestBlock, db.difficulty, db.evHandler); err != nil {
		return Block{}, err
	}

	db.blocks = append(db.blocks, nb)
	db.evHandler("database: Append: blk[%d]: hash[%s]", nb.Index, nb.Hash)

	return nb.Clone(), nil
}

// Replace validates the candidate chain and, if valid, swaps it in for the
// local chain regardless of length. This is used when bootstrapping a node
// from a peer.
func (db *Database) Replace(blocks []Block) error {
	chain, err := db.fresh(blocks)
	if err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	db.blocks = chain
	db.evHandler("database: Replace: length[%d]", len(chain))

	return nil
}

// ReplaceIfLonger validates the candidate chain and swaps it in only if it's
// strictly longer than the local chain at the time of the swap.
func (db *Database) ReplaceIfLonger(blocks []Block) error {
	chain, err := db.fresh(blocks)
	if err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if len(chain) <= len(db.blocks) {
		return fmt.Errorf("%w: got %d, local %d", ErrChainNotLonger, len(chain), len(db.blocks))
	}

	db.blocks = chain
	db.evHandler("database: ReplaceIfLonger: length[%d]", len(chain))

	return nil
}

// fresh validates the candidate and returns a private copy of it.
func (db *Database) fresh(blocks []Block) ([]Block, error) {
	if err := ValidateChain(blocks, db.difficulty, db.evHandler); err != nil {
		return nil, err
	}

	chain := make([]Block, len(blocks))
	for i, block := range blocks {
		chain[i] = block.Clone()
	}

	return chain, nil
}

// LatestBlock returns the block at the tip of the chain.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.blocks[len(db.blocks)-1].Clone()
}

// Length returns the number of blocks in the chain including genesis.
func (db *Database) Length() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.blocks)
}

// GetBlock returns the block at the specified index.
func (db *Database) GetBlock(index uint64) (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if index >= uint64(len(db.blocks)) {
		return Block{}, fmt.Errorf("%w: index %d", ErrBlockNotFound, index)
	}

	return db.blocks[index].Clone(), nil
}

// Copy returns a copy of the full chain.
func (db *Database) Copy() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	blocks := make([]Block, len(db.blocks))
	for i, block := range db.blocks {
		blocks[i] = block.Clone()
	}

	return blocks
}

// =============================================================================

// ValidateChain replays the append rules across the full candidate chain,
// starting with its own genesis block.
func ValidateChain(blocks []Block, difficulty uint, ev func(v string, args ...any)) error {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	if len(blocks) == 0 {
		return fmt.Errorf("%w: chain is empty", ErrChainIntegrity)
	}

	if err := blocks[0].validateGenesis(); err != nil {
		return fmt.Errorf("%w: blk 0: %w", ErrChainIntegrity, err)
	}

	for i := 1; i < len(blocks); i++ {
		if err := blocks[i].ValidateBlock(blocks[i-1], difficulty, ev); err != nil {
			return fmt.Errorf("%w: blk %d: %w", ErrChainIntegrity, i, err)
		}
	}

	return nil
}
