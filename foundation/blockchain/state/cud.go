package state

import (
	"github.com/yournet/ledger/foundation/blockchain/database"
	"github.com/yournet/ledger/foundation/blockchain/peer"
)

// SubmitRecord stamps the content with the current time and adds it to the
// pool. Required fields are checked by the caller at the boundary.
func (s *State) SubmitRecord(author string, content string) database.Record {
	rec := database.NewRecord(author, content)
	n := s.mempool.Submit(rec)

	s.evHandler("viewer: record submitted: record[%s]: pending[%d]", rec, n)

	return rec
}

// AddKnownPeer provides the ability to add a new peer. This node is never
// added to its own peer set.
func (s *State) AddKnownPeer(pr peer.Peer) bool {
	if s.host != "" && pr.Match(s.host) {
		return false
	}

	if !s.knownPeers.Add(pr) {
		return false
	}

	s.evHandler("state: AddKnownPeer: adding peer-node %s", pr)

	return true
}
