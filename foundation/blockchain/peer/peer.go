// Package peer maintains the peer related information such as the set
// of known peers.
package peer

import (
	"sort"
	"strings"
	"sync"
)

// Peer represents the base URL of another node in the network.
type Peer struct {
	Address string
}

// New constructs a peer, trimming any trailing slash so the same node is
// never stored twice.
func New(address string) Peer {
	return Peer{
		Address: strings.TrimRight(strings.TrimSpace(address), "/"),
	}
}

// Match validates if the specified address matches this node.
func (p Peer) Match(address string) bool {
	return p.Address == New(address).Address
}

// URL returns the address joined with the specified path.
func (p Peer) URL(path string) string {
	return p.Address + "/" + strings.TrimLeft(path, "/")
}

// String implements the fmt.Stringer interface.
func (p Peer) String() string {
	return p.Address
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Add adds a new node to the set. It reports false if the peer was already
// known or the address is empty.
func (ps *PeerSet) Add(peer Peer) bool {
	if peer.Address == "" {
		return false
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer]
	if !exists {
		ps.set[peer] = struct{}{}
		return true
	}

	return false
}

// Remove removes a node from the set.
func (ps *PeerSet) Remove(peer Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	delete(ps.set, peer)
}

// Copy returns the known peers sorted by address, excluding the specified
// host. The order is what consensus uses to break ties.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	peers := make([]Peer, 0, len(ps.set))
	for peer := range ps.set {
		if host == "" || !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	sort.Slice(peers, func(i, j int) bool {
		return peers[i].Address < peers[j].Address
	})

	return peers
}

// Addresses returns the sorted addresses of the known peers.
func (ps *PeerSet) Addresses(host string) []string {
	peers := ps.Copy(host)

	addrs := make([]string, len(peers))
	for i, peer := range peers {
		addrs[i] = peer.Address
	}

	return addrs
}
