package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yournet/ledger/foundation/blockchain/digest"
)

// GenesisPreviousHash is the sentinel stored as the previous hash of the
// genesis block since it has no real predecessor.
const GenesisPreviousHash = "0"

// ErrLinkage is returned when a block can't be linked to the chain, either
// because its proof of work is invalid or because it doesn't follow the block
// it's being linked to.
var ErrLinkage = errors.New("block linkage")

// ErrBlockAhead is joined with ErrLinkage when the block's index is two or
// more past the block it's being linked to. The sender's chain is longer than
// ours and a resync is required.
var ErrBlockAhead = errors.New("block is ahead of the chain, start resync")

// =============================================================================

// Block represents a group of records batched together and linked to the
// previous block by hash.
type Block struct {
	Index        uint64   `json:"index"`         // Position of the block in the chain.
	Records      []Record `json:"transactions"`  // Records included in this block.
	TimeStamp    uint64   `json:"timestamp"`     // Unix milliseconds the block was created.
	PreviousHash string   `json:"previous_hash"` // Hash of the previous block in the chain.
	Nonce        uint64   `json:"nonce"`         // Value identified to solve the hash solution.
	Hash         string   `json:"hash"`          // Set once a valid nonce is found, never part of its own input.
}

// Genesis constructs the first block of a chain. The genesis block is not
// mined, its hash is simply computed.
func Genesis() Block {
	b := Block{
		Index:        0,
		Records:      []Record{},
		TimeStamp:    Now(),
		PreviousHash: GenesisPreviousHash,
	}
	b.Hash = b.ComputeHash()

	return b
}

// NewBlock constructs the block that follows the specified block. The records
// are copied so the block never shares memory with the pool they came from.
func NewBlock(prevBlock Block, records []Record) Block {
	recs := make([]Record, len(records))
	copy(recs, records)

	return Block{
		Index:        prevBlock.Index + 1,
		Records:      recs,
		TimeStamp:    Now(),
		PreviousHash: prevBlock.Hash,
		Nonce:        0, // Will be identified by the POW algorithm.
	}
}

// blockFields is the canonical form of a block used for hashing. The fields
// are declared in sorted key order and the hash is excluded.
type blockFields struct {
	Index        uint64   `json:"index"`
	Nonce        uint64   `json:"nonce"`
	PreviousHash string   `json:"previous_hash"`
	TimeStamp    uint64   `json:"timestamp"`
	Records      []Record `json:"transactions"`
}

// ComputeHash returns the hash of every field in the block except the hash
// itself.
func (b Block) ComputeHash() string {
	records := b.Records
	if records == nil {
		records = []Record{}
	}

	bf := blockFields{
		Index:        b.Index,
		Nonce:        b.Nonce,
		PreviousHash: b.PreviousHash,
		TimeStamp:    b.TimeStamp,
		Records:      records,
	}

	return digest.Hash(bf)
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	nb := b
	nb.Records = make([]Record, len(b.Records))
	copy(nb.Records, b.Records)

	return nb
}

// PerformPOW does the work of mining to find a valid hash for the block.
// Pointer semantics are being used since a nonce is being discovered. The
// search starts at nonce zero and only stops when solved or cancelled.
func (b *Block) PerformPOW(ctx context.Context, difficulty uint, ev func(v string, args ...any)) (string, error) {
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	ev("database: PerformPOW: MINING: started: blk[%d]", b.Index)
	defer ev("database: PerformPOW: MINING: completed: blk[%d]", b.Index)

	// Log the records that are a part of this potential block.
	for _, rec := range b.Records {
		ev("database: PerformPOW: MINING: record[%s]", rec)
	}

	b.Nonce = 0

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: PerformPOW: MINING: attempts[%d]", attempts)
		}

		// Did we get cancelled trying to solve the problem.
		if ctx.Err() != nil {
			ev("database: PerformPOW: MINING: CANCELLED")
			return "", ctx.Err()
		}

		// Hash the block and check if we have solved the puzzle.
		hash := b.ComputeHash()
		if !IsHashSolved(difficulty, hash) {
			b.Nonce++
			continue
		}

		ev("database: PerformPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", b.PreviousHash, hash, attempts)

		return hash, nil
	}
}

// IsValidProof checks the hash matches a recomputation of the block and
// satisfies the difficulty.
func (b Block) IsValidProof(hash string, difficulty uint) bool {
	return IsHashSolved(difficulty, hash) && hash == b.ComputeHash()
}

// ValidateBlock takes a block and validates it can follow the previous
// block. The proof of work is checked independently of the chain position
// first, then the linkage against the previous block.
func (b Block) ValidateBlock(previousBlock Block, difficulty uint, ev func(v string, args ...any)) error {
	ev("database: ValidateBlock: validate: blk[%d]: check: block hash has been solved", b.Index)

	if !b.IsValidProof(b.Hash, difficulty) {
		return fmt.Errorf("%w: invalid proof of work, blk %d, hash %s", ErrLinkage, b.Index, b.Hash)
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: chain is not ahead", b.Index)

	nextIndex := previousBlock.Index + 1
	if b.Index > nextIndex {
		return fmt.Errorf("%w: %w: got %d, exp %d", ErrLinkage, ErrBlockAhead, b.Index, nextIndex)
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: previous hash does match previous block", b.Index)

	if b.PreviousHash != previousBlock.Hash {
		return fmt.Errorf("%w: previous block hash doesn't match, got %s, exp %s", ErrLinkage, b.PreviousHash, previousBlock.Hash)
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: block index is the next index", b.Index)

	if b.Index != nextIndex {
		return fmt.Errorf("%w: this block is not the next index, got %d, exp %d", ErrLinkage, b.Index, nextIndex)
	}

	return nil
}

// validateGenesis checks the first block of a chain. The genesis block is
// trusted as given and not held to the difficulty, but it must still be
// well formed.
func (b Block) validateGenesis() error {
	switch {
	case b.Index != 0:
		return fmt.Errorf("genesis block has index %d", b.Index)
	case b.PreviousHash != GenesisPreviousHash:
		return fmt.Errorf("genesis block has previous hash %s", b.PreviousHash)
	case b.Hash != b.ComputeHash():
		return fmt.Errorf("genesis block hash %s doesn't match its fields", b.Hash)
	}

	return nil
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of leading 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	if !digest.IsHex(hash) {
		return false
	}

	if difficulty > uint(len(hash)) {
		return false
	}

	return strings.HasPrefix(hash, strings.Repeat("0", int(difficulty)))
}
