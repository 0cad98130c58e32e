package state

import (
	"errors"

	"github.com/yournet/ledger/foundation/blockchain/database"
)

// ProcessProposedBlock takes a block received from a peer, validates it and
// if that passes, adds the block to the local chain. The hash carried by
// the block is the claimed hash that gets verified.
func (s *State) ProcessProposedBlock(block database.Block) (database.Block, error) {
	s.evHandler("state: ProcessProposedBlock: started: blk[%d]: hash[%s]", block.Index, block.Hash)
	defer s.evHandler("state: ProcessProposedBlock: completed")

	s.mu.Lock()
	stored, err := s.db.Append(block, block.Hash)
	s.mu.Unlock()

	if err != nil {
		s.evHandler("state: ProcessProposedBlock: rejected: %s", err)

		// The peer is more than one block ahead of us so ask for
		// their chain instead of rejecting blocks one at a time.
		if errors.Is(err, database.ErrBlockAhead) {
			s.signalResolve()
		}

		return database.Block{}, err
	}

	// If a mining operation is running it's working on a tip that no
	// longer exists.
	s.signalCancelMining()

	s.evHandler("viewer: block accepted from peer: blk[%d]: hash[%s]", stored.Index, stored.Hash)

	return stored, nil
}
