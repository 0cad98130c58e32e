package state

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/yournet/ledger/foundation/blockchain/database"
	"github.com/yournet/ledger/foundation/blockchain/peer"
)

// Resolve runs the longest valid chain rule against every known peer. Only
// a chain strictly longer than the local one that passes full validation is
// adopted. When several qualify the longest wins, ties go to the peer with
// the lowest address. It reports whether the local chain was replaced. The
// returned error aggregates the peers that couldn't be consulted.
func (s *State) Resolve(ctx context.Context) (bool, error) {
	s.evHandler("state: Resolve: started")
	defer s.evHandler("state: Resolve: completed")

	peers := s.RetrieveKnownPeers()
	if len(peers) == 0 {
		return false, nil
	}

	results := s.NetRequestPeerChains(ctx, peers)
	localLength := s.db.Length()

	var errs []error
	var candidates []PeerChain
	for _, result := range results {
		switch {
		case result.Err != nil:
			s.evHandler("state: Resolve: peer[%s]: no opinion: %s", result.Peer, result.Err)
			errs = append(errs, fmt.Errorf("%s: %w", result.Peer, result.Err))

		case len(result.Blocks) > localLength:
			candidates = append(candidates, result)

		default:
			s.evHandler("state: Resolve: peer[%s]: length[%d]: not longer than local[%d]", result.Peer, len(result.Blocks), localLength)
		}
	}

	// Results are in peer address order, a stable sort keeps that order
	// between chains of the same length.
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].Blocks) > len(candidates[j].Blocks)
	})

	for _, candidate := range candidates {
		err := s.db.ReplaceIfLonger(candidate.Blocks)

		switch {
		case err == nil:
			s.evHandler("viewer: chain replaced: peer[%s]: length[%d]", candidate.Peer, len(candidate.Blocks))
			s.signalCancelMining()
			return true, errors.Join(errs...)

		case errors.Is(err, database.ErrChainNotLonger):

			// The local chain grew while the peers were consulted. The
			// remaining candidates are no longer than this one.
			s.evHandler("state: Resolve: peer[%s]: %s", candidate.Peer, err)
			return false, errors.Join(errs...)

		default:
			s.evHandler("state: Resolve: peer[%s]: invalid chain: %s", candidate.Peer, err)
			errs = append(errs, fmt.Errorf("%s: %w", candidate.Peer, err))
		}
	}

	return false, errors.Join(errs...)
}

// RegisterWith registers this node with the remote node, adopts the remote
// chain once it passes validation and merges the remote's peers into the
// local set.
func (s *State) RegisterWith(ctx context.Context, address string) error {
	s.evHandler("state: RegisterWith: started: %s", address)
	defer s.evHandler("state: RegisterWith: completed: %s", address)

	remote := peer.New(address)

	chain, err := s.NetRegisterWithPeer(ctx, remote)
	if err != nil {
		return err
	}

	if err := s.db.Replace(chain.Blocks); err != nil {
		return err
	}
	s.signalCancelMining()

	s.AddKnownPeer(remote)
	for _, addr := range chain.Peers {
		s.AddKnownPeer(peer.New(addr))
	}

	s.evHandler("viewer: registered with node[%s]: length[%d]", remote, len(chain.Blocks))

	return nil
}
