package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/yournet/ledger/foundation/blockchain/database"
	"github.com/yournet/ledger/foundation/blockchain/peer"
	"golang.org/x/sync/errgroup"
)

// ErrPeerUnavailable is returned when a peer can't be reached or doesn't
// answer in time. The peer is skipped for that operation only.
var ErrPeerUnavailable = errors.New("peer unavailable")

// ErrPeerRejected is returned when a peer answers with a failure status.
var ErrPeerRejected = errors.New("peer rejected the request")

// Registration is the payload used to register a node with a peer.
type Registration struct {
	NodeAddress string `json:"node_address"`
}

// PeerChain is the chain reported by a peer during consensus.
type PeerChain struct {
	Peer   peer.Peer
	Blocks []database.Block
	Err    error
}

// =============================================================================

// NetSendBlockToPeers takes the new mined block and sends it to all known
// peers. This is a best effort broadcast: every peer is tried, failures are
// aggregated and the local chain is never rolled back.
func (s *State) NetSendBlockToPeers(ctx context.Context, block database.Block) error {
	s.evHandler("state: NetSendBlockToPeers: started")
	defer s.evHandler("state: NetSendBlockToPeers: completed")

	peers := s.RetrieveKnownPeers()
	errs := make([]error, len(peers))

	var g errgroup.Group
	g.SetLimit(s.maxPeerRequests)

	for i, pr := range peers {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, s.peerTimeout)
			defer cancel()

			if err := s.send(ctx, http.MethodPost, pr.URL("/add_block"), block, nil); err != nil {
				s.evHandler("state: NetSendBlockToPeers: WARNING: peer[%s]: %s", pr, err)
				errs[i] = fmt.Errorf("%s: %w", pr, err)
				return nil
			}

			s.evHandler("state: NetSendBlockToPeers: sent to peer[%s]", pr)
			return nil
		})
	}
	g.Wait()

	return errors.Join(errs...)
}

// NetRequestPeerChains asks every peer for its chain concurrently. A slow or
// dead peer has its error recorded and doesn't hold up the others. The
// results are returned in the order of the peers provided.
func (s *State) NetRequestPeerChains(ctx context.Context, peers []peer.Peer) []PeerChain {
	s.evHandler("state: NetRequestPeerChains: started: peers[%d]", len(peers))
	defer s.evHandler("state: NetRequestPeerChains: completed")

	results := make([]PeerChain, len(peers))

	var g errgroup.Group
	g.SetLimit(s.maxPeerRequests)

	for i, pr := range peers {
		g.Go(func() error {
			blocks, err := s.NetRequestPeerChain(ctx, pr)
			results[i] = PeerChain{Peer: pr, Blocks: blocks, Err: err}
			return nil
		})
	}
	g.Wait()

	return results
}

// NetRequestPeerChain asks a single peer for its full chain.
func (s *State) NetRequestPeerChain(ctx context.Context, pr peer.Peer) ([]database.Block, error) {
	ctx, cancel := context.WithTimeout(ctx, s.peerTimeout)
	defer cancel()

	var chain Chain
	if err := s.send(ctx, http.MethodGet, pr.URL("/chain"), nil, &chain); err != nil {
		return nil, err
	}

	if chain.Length != len(chain.Blocks) {
		return nil, fmt.Errorf("%w: reported length %d, got %d blocks", ErrPeerRejected, chain.Length, len(chain.Blocks))
	}

	s.evHandler("state: NetRequestPeerChain: peer-node[%s]: length[%d]", pr, chain.Length)

	return chain.Blocks, nil
}

// NetRegisterWithPeer registers this node with the specified peer and
// returns the peer's chain and known peers.
func (s *State) NetRegisterWithPeer(ctx context.Context, pr peer.Peer) (Chain, error) {
	ctx, cancel := context.WithTimeout(ctx, s.peerTimeout)
	defer cancel()

	var chain Chain
	if err := s.send(ctx, http.MethodPost, pr.URL("/register_node"), Registration{NodeAddress: s.host}, &chain); err != nil {
		return Chain{}, err
	}

	return chain, nil
}

// =============================================================================

// send is a helper function to send an HTTP request to a node.
func (s *State) send(ctx context.Context, method string, url string, dataSend any, dataRecv any) error {
	var body io.Reader
	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if dataSend != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPeerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, err := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		if err != nil {
			return fmt.Errorf("%w: status %d", ErrPeerRejected, resp.StatusCode)
		}
		return fmt.Errorf("%w: status %d: %s", ErrPeerRejected, resp.StatusCode, bytes.TrimSpace(msg))
	}

	if dataRecv != nil {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return fmt.Errorf("%w: decoding response: %w", ErrPeerRejected, err)
		}
	}

	return nil
}
