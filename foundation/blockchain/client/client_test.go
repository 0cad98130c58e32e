package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yournet/ledger/foundation/blockchain/client"
	"github.com/yournet/ledger/foundation/blockchain/database"
	"github.com/yournet/ledger/foundation/blockchain/state"
)

// success is the marker logged for a passing check.
const success = "✓"

func Test_Client(t *testing.T) {
	t.Log("Given the need to call a node.")
	{
		var posted struct {
			Author  string `json:"author"`
			Content string `json:"content"`
		}

		mux := http.NewServeMux()
		mux.HandleFunc("POST /new_transaction", func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&posted)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(client.Status{Status: "Success"})
		})
		mux.HandleFunc("GET /chain", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(state.Chain{Length: 1, Blocks: []database.Block{database.Genesis()}, Peers: []string{}})
		})
		mux.HandleFunc("GET /mine", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"too many pending mining requests"}`))
		})

		srv := httptest.NewServer(mux)
		defer srv.Close()

		c := client.New(srv.URL+"/", nil)
		ctx := context.Background()

		st, err := c.Submit(ctx, "alice", "hello")
		require.NoError(t, err)
		require.Equal(t, "Success", st.Status)
		require.Equal(t, "alice", posted.Author)
		require.Equal(t, "hello", posted.Content)
		t.Logf("\t%s\tShould be able to submit.", success)

		chain, err := c.Chain(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, chain.Length)
		require.Len(t, chain.Blocks, 1)
		t.Logf("\t%s\tShould be able to read the chain.", success)

		_, err = c.Mine(ctx)
		require.True(t, client.IsStatus(err, http.StatusServiceUnavailable), "got %v", err)
		t.Logf("\t%s\tShould report the node failure status.", success)

		require.EqualError(t, err, "node responded 503: too many pending mining requests")
		t.Logf("\t%s\tShould carry the node message.", success)
	}
}
