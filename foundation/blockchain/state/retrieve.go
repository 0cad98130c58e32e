package state

import (
	"github.com/yournet/ledger/foundation/blockchain/database"
	"github.com/yournet/ledger/foundation/blockchain/peer"
)

// Chain is the full view of the ledger shared with clients and peers.
type Chain struct {
	Length int              `json:"length"`
	Blocks []database.Block `json:"chain"`
	Peers  []string         `json:"peers"`
}

// RetrieveHost returns the address this node advertises to peers.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveDifficulty returns the number of leading zeros a block hash needs.
func (s *State) RetrieveDifficulty() uint {
	return s.db.Difficulty()
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// RetrieveChain returns a copy of the full chain along with the known peers.
func (s *State) RetrieveChain() Chain {
	blocks := s.db.Copy()

	return Chain{
		Length: len(blocks),
		Blocks: blocks,
		Peers:  s.knownPeers.Addresses(s.host),
	}
}

// RetrieveMempool returns a copy of the records waiting to be mined.
func (s *State) RetrieveMempool() []database.Record {
	return s.mempool.Copy()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryChainLength returns the number of blocks in the chain.
func (s *State) QueryChainLength() int {
	return s.db.Length()
}

// QueryBlock returns the block at the specified index.
func (s *State) QueryBlock(index uint64) (database.Block, error) {
	return s.db.GetBlock(index)
}
