package feed_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yournet/ledger/business/core/feed"
	"github.com/yournet/ledger/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Build(t *testing.T) {
	t.Log("Given the need to show the chain as a feed.")
	{
		blocks := []database.Block{
			{Index: 0, Hash: "h0", Records: []database.Record{}},
			{Index: 1, Hash: "h1", Records: []database.Record{
				{Author: "alice", Content: "first", TimeStamp: 100},
				{Author: "bob", Content: "tie-a", TimeStamp: 300},
			}},
			{Index: 2, Hash: "h2", Records: []database.Record{
				{Author: "carol", Content: "tie-b", TimeStamp: 300},
				{Author: "dave", Content: "middle", TimeStamp: 200},
			}},
		}

		got := feed.Build(blocks)

		exp := []feed.Post{
			{Author: "carol", Content: "tie-b", TimeStamp: 300, BlockIndex: 2, BlockHash: "h2"},
			{Author: "bob", Content: "tie-a", TimeStamp: 300, BlockIndex: 1, BlockHash: "h1"},
			{Author: "dave", Content: "middle", TimeStamp: 200, BlockIndex: 2, BlockHash: "h2"},
			{Author: "alice", Content: "first", TimeStamp: 100, BlockIndex: 1, BlockHash: "h1"},
		}

		if diff := cmp.Diff(exp, got); diff != "" {
			t.Fatalf("\t%s\tShould list the posts newest first. Diff:\n%s", failed, diff)
		}
		t.Logf("\t%s\tShould list the posts newest first.", success)

		if len(feed.Build([]database.Block{blocks[0]})) != 0 {
			t.Fatalf("\t%s\tShould have no posts for a genesis only chain.", failed)
		}
		t.Logf("\t%s\tShould have no posts for a genesis only chain.", success)
	}
}
