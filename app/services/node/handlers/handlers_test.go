package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/yournet/ledger/app/services/node/handlers"
	"github.com/yournet/ledger/business/web/errs"
	"github.com/yournet/ledger/foundation/blockchain/database"
	"github.com/yournet/ledger/foundation/blockchain/state"
	"github.com/yournet/ledger/foundation/blockchain/worker"
	"github.com/yournet/ledger/foundation/events"
	"go.uber.org/zap/zaptest"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// node is a running node behind a test server.
type node struct {
	url   string
	state *state.State
}

func newNode(t *testing.T) node {
	t.Helper()

	var mux http.Handler
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	st, err := state.New(state.Config{
		Host:        srv.URL,
		Difficulty:  1,
		PeerTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}

	worker.Run(st, worker.Config{ResolveInterval: -1})
	t.Cleanup(func() { st.Shutdown() })

	mux = handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zaptest.NewLogger(t).Sugar(),
		State:    st,
		Evts:     events.New("viewer:"),
	})

	return node{url: srv.URL, state: st}
}

func call(t *testing.T, method string, url string, body string, resp any) int {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("\t%s\tShould be able to build the request: %v", failed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	r, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to call %s: %v", failed, url, err)
	}
	defer r.Body.Close()

	if resp != nil {
		if err := json.NewDecoder(r.Body).Decode(resp); err != nil {
			t.Fatalf("\t%s\tShould be able to decode the response of %s: %v", failed, url, err)
		}
	}

	return r.StatusCode
}

type status struct {
	Status string `json:"status"`
	Index  uint64 `json:"index"`
}

// =============================================================================

func Test_Submit(t *testing.T) {
	type table struct {
		name   string
		body   string
		status int
		fields []string
	}

	tt := []table{
		{name: "valid", body: `{"author":"alice","content":"hello"}`, status: http.StatusCreated},
		{name: "extra", body: `{"author":"alice","content":"hello","mood":"good"}`, status: http.StatusCreated},
		{name: "nocontent", body: `{"author":"alice"}`, status: http.StatusBadRequest, fields: []string{"content"}},
		{name: "blank", body: `{"author":" ","content":"hello"}`, status: http.StatusBadRequest, fields: []string{"author"}},
		{name: "malformed", body: `{"author":`, status: http.StatusBadRequest},
	}

	t.Log("Given the need to submit records.")
	{
		n := newNode(t)

		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen posting a %s record.", testID, tst.name)
				{
					before := n.state.QueryMempoolLength()

					var er errs.Response
					var resp any = &er
					if tst.status == http.StatusCreated {
						resp = &status{}
					}

					got := call(t, http.MethodPost, n.url+"/new_transaction", tst.body, resp)
					if got != tst.status {
						t.Fatalf("\t%s\tTest %d:\tShould receive a %d status code, got %d.", failed, testID, tst.status, got)
					}
					t.Logf("\t%s\tTest %d:\tShould receive a %d status code.", success, testID, tst.status)

					exp := before
					if tst.status == http.StatusCreated {
						exp++
					}
					if n.state.QueryMempoolLength() != exp {
						t.Fatalf("\t%s\tTest %d:\tShould have %d pending records, got %d.", failed, testID, exp, n.state.QueryMempoolLength())
					}
					t.Logf("\t%s\tTest %d:\tShould have %d pending records.", success, testID, exp)

					for _, fld := range tst.fields {
						if _, exists := er.Fields[fld]; !exists {
							t.Fatalf("\t%s\tTest %d:\tShould report the %q field, got %v.", failed, testID, fld, er.Fields)
						}
					}
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_MineAndRead(t *testing.T) {
	t.Log("Given the need to mine and read the ledger over HTTP.")
	{
		n := newNode(t)

		t.Logf("\tTest 0:\tWhen nothing is pending.")
		{
			var resp status
			if got := call(t, http.MethodGet, n.url+"/mine", "", &resp); got != http.StatusOK || resp.Status != "No transactions to mine" {
				t.Fatalf("\t%s\tTest 0:\tShould report nothing to mine, got %d %q.", failed, got, resp.Status)
			}
			t.Logf("\t%s\tTest 0:\tShould report nothing to mine.", success)
		}

		t.Logf("\tTest 1:\tWhen a record is pending.")
		{
			call(t, http.MethodPost, n.url+"/new_transaction", `{"author":"alice","content":"hello"}`, nil)

			var records []database.Record
			if got := call(t, http.MethodGet, n.url+"/pending-tx", "", &records); got != http.StatusOK || len(records) != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould list the pending record, got %d %d.", failed, got, len(records))
			}
			t.Logf("\t%s\tTest 1:\tShould list the pending record.", success)

			var resp status
			if got := call(t, http.MethodGet, n.url+"/mine", "", &resp); got != http.StatusOK || resp.Status != "Block #1 is mined." {
				t.Fatalf("\t%s\tTest 1:\tShould mine block 1, got %d %q.", failed, got, resp.Status)
			}
			t.Logf("\t%s\tTest 1:\tShould mine block 1.", success)

			var chain state.Chain
			if got := call(t, http.MethodGet, n.url+"/chain", "", &chain); got != http.StatusOK || chain.Length != 2 || len(chain.Blocks) != 2 {
				t.Fatalf("\t%s\tTest 1:\tShould return a chain of length 2, got %d %d.", failed, got, chain.Length)
			}
			t.Logf("\t%s\tTest 1:\tShould return a chain of length 2.", success)

			if err := database.ValidateChain(chain.Blocks, 1, nil); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould return a chain that validates: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould return a chain that validates.", success)

			var block database.Block
			if got := call(t, http.MethodGet, n.url+"/block/1", "", &block); got != http.StatusOK || block.Hash != chain.Blocks[1].Hash {
				t.Fatalf("\t%s\tTest 1:\tShould return block 1, got %d.", failed, got)
			}
			t.Logf("\t%s\tTest 1:\tShould return block 1.", success)

			if got := call(t, http.MethodGet, n.url+"/block/9", "", nil); got != http.StatusNotFound {
				t.Fatalf("\t%s\tTest 1:\tShould not find block 9, got %d.", failed, got)
			}
			t.Logf("\t%s\tTest 1:\tShould not find block 9.", success)
		}
	}
}

func Test_AddBlock(t *testing.T) {
	t.Log("Given the need to accept blocks from peers over HTTP.")
	{
		n := newNode(t)

		tip := n.state.RetrieveLatestBlock()
		block := database.NewBlock(tip, []database.Record{database.NewRecord("bob", "hi")})
		block.Hash = block.ComputeHash()

		// Move the nonce until the hash doesn't meet the difficulty.
		for database.IsHashSolved(1, block.Hash) {
			block.Nonce++
			block.Hash = block.ComputeHash()
		}

		data, _ := json.Marshal(block)

		var er errs.Response
		if got := call(t, http.MethodPost, n.url+"/add_block", string(data), &er); got != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould reject an unsolved block, got %d.", failed, got)
		}
		if er.Error != "The block was discarded by the node" {
			t.Fatalf("\t%s\tShould report the block as discarded, got %q.", failed, er.Error)
		}
		t.Logf("\t%s\tShould reject an unsolved block.", success)

		for !database.IsHashSolved(1, block.Hash) {
			block.Nonce++
			block.Hash = block.ComputeHash()
		}

		data, _ = json.Marshal(block)
		if got := call(t, http.MethodPost, n.url+"/add_block", string(bytes.TrimSpace(data)), nil); got != http.StatusCreated {
			t.Fatalf("\t%s\tShould accept a solved block, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould accept a solved block.", success)

		if n.state.QueryChainLength() != 2 {
			t.Fatalf("\t%s\tShould have appended the block.", failed)
		}
		t.Logf("\t%s\tShould have appended the block.", success)
	}
}

func Test_TwoNodes(t *testing.T) {
	t.Log("Given the need for two nodes to converge.")
	{
		a := newNode(t)
		b := newNode(t)

		t.Logf("\tTest 0:\tWhen node B registers with node A.")
		{
			body := `{"node_address":"` + a.url + `"}`

			var resp status
			if got := call(t, http.MethodPost, b.url+"/register_with", body, &resp); got != http.StatusOK || resp.Status != "Registration successful" {
				t.Fatalf("\t%s\tTest 0:\tShould register, got %d %q.", failed, got, resp.Status)
			}
			t.Logf("\t%s\tTest 0:\tShould register.", success)

			if b.state.RetrieveLatestBlock().Hash != a.state.RetrieveLatestBlock().Hash {
				t.Fatalf("\t%s\tTest 0:\tShould share the genesis block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould share the genesis block.", success)

			if peers := a.state.RetrieveChain().Peers; len(peers) != 1 || peers[0] != b.url {
				t.Fatalf("\t%s\tTest 0:\tShould have node A know node B, got %v.", failed, peers)
			}
			t.Logf("\t%s\tTest 0:\tShould have node A know node B.", success)
		}

		t.Logf("\tTest 1:\tWhen node A mines a block.")
		{
			call(t, http.MethodPost, a.url+"/new_transaction", `{"author":"alice","content":"hello"}`, nil)

			var resp status
			if got := call(t, http.MethodGet, a.url+"/mine", "", &resp); got != http.StatusOK || resp.Index != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould mine block 1, got %d %q.", failed, got, resp.Status)
			}
			t.Logf("\t%s\tTest 1:\tShould mine block 1.", success)

			if b.state.QueryChainLength() != 2 || b.state.RetrieveLatestBlock().Hash != a.state.RetrieveLatestBlock().Hash {
				t.Fatalf("\t%s\tTest 1:\tShould have node B append the announced block.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould have node B append the announced block.", success)
		}

		t.Logf("\tTest 2:\tWhen registering with a node that isn't there.")
		{
			dead := httptest.NewServer(http.NotFoundHandler())
			deadURL := dead.URL
			dead.Close()

			body := `{"node_address":"` + deadURL + `"}`
			if got := call(t, http.MethodPost, b.url+"/register_with", body, nil); got != http.StatusBadGateway {
				t.Fatalf("\t%s\tTest 2:\tShould report a bad gateway, got %d.", failed, got)
			}
			t.Logf("\t%s\tTest 2:\tShould report a bad gateway.", success)

			if b.state.QueryChainLength() != 2 {
				t.Fatalf("\t%s\tTest 2:\tShould keep the local chain.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould keep the local chain.", success)
		}
	}
}
