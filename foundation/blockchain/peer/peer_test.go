package peer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yournet/ledger/foundation/blockchain/peer"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_CRUD(t *testing.T) {
	type table struct {
		name  string
		peers []string
		exp   []string
	}

	tt := []table{
		{
			name:  "basic",
			peers: []string{"http://host3:8000", "http://host1:8000", "http://host2:8000"},
			exp:   []string{"http://host1:8000", "http://host2:8000", "http://host3:8000"},
		},
		{
			name:  "dedup",
			peers: []string{"http://host1:8000/", "http://host1:8000", " http://host2:8000 ", ""},
			exp:   []string{"http://host1:8000", "http://host2:8000"},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			ps := peer.NewPeerSet()

			for _, addr := range tst.peers {
				ps.Add(peer.New(addr))
			}

			if diff := cmp.Diff(tst.exp, ps.Addresses("")); diff != "" {
				t.Fatalf("\t%s\tTest %s:\tShould get back the sorted peers. Diff:\n%s", failed, tst.name, diff)
			}
			t.Logf("\t%s\tTest %s:\tShould get back the sorted peers.", success, tst.name)

			peers := ps.Copy("http://host2:8000/")
			if len(peers) != len(tst.exp)-1 {
				t.Logf("\t\tTest %s:\tgot: %d", tst.name, len(peers))
				t.Logf("\t\tTest %s:\texp: %d", tst.name, len(tst.exp)-1)
				t.Fatalf("\t%s\tTest %s:\tShould exclude the host from the peers.", failed, tst.name)
			}
			t.Logf("\t%s\tTest %s:\tShould exclude the host from the peers.", success, tst.name)

			ps.Remove(peer.New("http://host1:8000"))
			if len(ps.Copy("")) != len(tst.exp)-1 {
				t.Fatalf("\t%s\tTest %s:\tShould be able to remove a peer.", failed, tst.name)
			}
			t.Logf("\t%s\tTest %s:\tShould be able to remove a peer.", success, tst.name)
		}

		t.Run(tst.name, f)
	}
}

func Test_URL(t *testing.T) {
	p := peer.New("http://host1:8000/")

	if got := p.URL("/chain"); got != "http://host1:8000/chain" {
		t.Fatalf("\t%s\tShould join the path, got %s.", failed, got)
	}
	t.Logf("\t%s\tShould join the path.", success)
}
