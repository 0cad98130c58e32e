package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yournet/ledger/foundation/blockchain/database"
	"github.com/yournet/ledger/foundation/blockchain/state"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Commands(t *testing.T) {
	var posted database.Record

	mux := http.NewServeMux()
	mux.HandleFunc("POST /new_transaction", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&posted)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"status":"Success"}`))
	})
	mux.HandleFunc("GET /chain", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(state.Chain{Length: 1, Blocks: []database.Block{database.Genesis()}, Peers: []string{}})
	})
	mux.HandleFunc("GET /mine", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"No transactions to mine"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	type table struct {
		name string
		args []string
		exp  string
	}

	tt := []table{
		{name: "post", args: []string{"post", "-a", "alice", "-c", "hello"}, exp: `"status": "Success"`},
		{name: "chain", args: []string{"chain", "-s"}, exp: "length: 1"},
		{name: "mine", args: []string{"mine"}, exp: "No transactions to mine"},
	}

	t.Log("Given the need to drive a node from the command line.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen running the %s command.", testID, tst.name)
				{
					var out bytes.Buffer
					rootCmd.SetOut(&out)
					rootCmd.SetArgs(append(tst.args, "--url", srv.URL))

					if err := rootCmd.Execute(); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to run the command: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to run the command.", success, testID)

					if !strings.Contains(out.String(), tst.exp) {
						t.Fatalf("\t%s\tTest %d:\tShould print %q, got %q.", failed, testID, tst.exp, out.String())
					}
					t.Logf("\t%s\tTest %d:\tShould print %q.", success, testID, tst.exp)
				}
			}

			t.Run(tst.name, f)
		}

		if posted.Author != "alice" || posted.Content != "hello" {
			t.Fatalf("\t%s\tShould have posted the record, got %+v.", failed, posted)
		}
		t.Logf("\t%s\tShould have posted the record.", success)
	}
}
