package events_test

import (
	"testing"

	"github.com/yournet/ledger/foundation/events"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_Events(t *testing.T) {
	t.Log("Given the need to broadcast node events.")
	{
		evts := events.New("viewer:")

		ch1 := evts.Acquire("1")
		ch2 := evts.Acquire("2")

		if evts.Acquire("1") != ch1 || evts.Count() != 2 {
			t.Fatalf("\t%s\tShould reuse the channel for the same id.", failed)
		}
		t.Logf("\t%s\tShould reuse the channel for the same id.", success)

		evts.Send("state: internal detail")
		evts.Send("viewer: block mined")

		for i, ch := range []chan string{ch1, ch2} {
			if msg := <-ch; msg != "viewer: block mined" {
				t.Fatalf("\t%s\tShould deliver only prefixed events to receiver %d, got %q.", failed, i, msg)
			}
			if len(ch) != 0 {
				t.Fatalf("\t%s\tShould deliver only prefixed events to receiver %d.", failed, i)
			}
		}
		t.Logf("\t%s\tShould deliver only prefixed events to every receiver.", success)

		if err := evts.Release("1"); err != nil {
			t.Fatalf("\t%s\tShould be able to release a receiver: %v", failed, err)
		}
		if _, open := <-ch1; open {
			t.Fatalf("\t%s\tShould close a released channel.", failed)
		}
		t.Logf("\t%s\tShould close a released channel.", success)

		evts.Shutdown()
		if _, open := <-ch2; open {
			t.Fatalf("\t%s\tShould close every channel on shutdown.", failed)
		}
		t.Logf("\t%s\tShould close every channel on shutdown.", success)

		if err := evts.Release("2"); err == nil {
			t.Fatalf("\t%s\tShould not release a receiver twice.", failed)
		}
		t.Logf("\t%s\tShould not release a receiver twice.", success)
	}
}
