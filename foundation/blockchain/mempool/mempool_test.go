package mempool_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yournet/ledger/foundation/blockchain/database"
	"github.com/yournet/ledger/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCRUD(t *testing.T) {
	type table struct {
		name    string
		records []database.Record
		late    []database.Record
	}

	tt := []table{
		{
			name: "basic",
			records: []database.Record{
				{Author: "alice", Content: "hello", TimeStamp: 1},
				{Author: "bob", Content: "hi", TimeStamp: 2},
				{Author: "alice", Content: "how are you", TimeStamp: 3},
			},
			late: []database.Record{
				{Author: "carol", Content: "late to the party", TimeStamp: 4},
			},
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of records.", testID)
			{
				f := func(t *testing.T) {
					mp := mempool.New()

					if records, seq := mp.Snapshot(); records != nil || seq != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould get an empty snapshot from an empty pool.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get an empty snapshot from an empty pool.", success, testID)

					for _, rec := range tst.records {
						mp.Submit(rec)
					}

					if mp.Count() != len(tst.records) {
						t.Fatalf("\t%s\tTest %d:\tShould have %d records, got %d.", failed, testID, len(tst.records), mp.Count())
					}
					t.Logf("\t%s\tTest %d:\tShould have the right number of records.", success, testID)

					snapshot, seq := mp.Snapshot()
					if diff := cmp.Diff(tst.records, snapshot); diff != "" {
						t.Fatalf("\t%s\tTest %d:\tShould get the records in submission order. Diff:\n%s", failed, testID, diff)
					}
					t.Logf("\t%s\tTest %d:\tShould get the records in submission order.", success, testID)

					for _, rec := range tst.late {
						mp.Submit(rec)
					}

					if removed := mp.Commit(seq); removed != len(tst.records) {
						t.Fatalf("\t%s\tTest %d:\tShould remove only the snapshot, removed %d.", failed, testID, removed)
					}
					t.Logf("\t%s\tTest %d:\tShould remove only the snapshot.", success, testID)

					if diff := cmp.Diff(tst.late, mp.Copy()); diff != "" {
						t.Fatalf("\t%s\tTest %d:\tShould keep records submitted after the snapshot. Diff:\n%s", failed, testID, diff)
					}
					t.Logf("\t%s\tTest %d:\tShould keep records submitted after the snapshot.", success, testID)

					mp.Truncate()
					if mp.Count() != 0 || len(mp.Copy()) != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould have an empty pool after truncate.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould have an empty pool after truncate.", success, testID)

					if removed := mp.Commit(seq); removed != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould remove nothing from an empty pool.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould remove nothing from an empty pool.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestConcurrentSubmit(t *testing.T) {
	const writers = 10
	const perWriter = 100

	t.Log("Given the need to submit records concurrently with mining.")
	{
		mp := mempool.New()

		var wg sync.WaitGroup
		wg.Add(writers)
		for w := 0; w < writers; w++ {
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					mp.Submit(database.Record{Author: fmt.Sprintf("w%d", w), Content: fmt.Sprint(i)})
				}
			}(w)
		}

		var committed int
		for i := 0; i < 20; i++ {
			_, seq := mp.Snapshot()
			committed += mp.Commit(seq)
		}
		wg.Wait()

		if committed+mp.Count() != writers*perWriter {
			t.Fatalf("\t%s\tShould never lose a record, got %d.", failed, committed+mp.Count())
		}
		t.Logf("\t%s\tShould never lose a record.", success)
	}
}
