package digest_test

import (
	"testing"

	"github.com/yournet/ledger/foundation/blockchain/digest"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Hash(t *testing.T) {
	type value struct {
		Author  string `json:"author"`
		Content string `json:"content"`
	}

	t.Log("Given the need to hash values consistently.")
	{
		v := value{Author: "alice", Content: "hello"}

		h1 := digest.Hash(v)
		h2 := digest.Hash(v)
		if h1 != h2 {
			t.Logf("\t%s\tgot: %s", failed, h2)
			t.Logf("\t%s\texp: %s", failed, h1)
			t.Fatalf("\t%s\tShould get the same hash for the same value.", failed)
		}
		t.Logf("\t%s\tShould get the same hash for the same value.", success)

		if !digest.IsHex(h1) {
			t.Fatalf("\t%s\tShould get a 64 character lower case hex hash: %s", failed, h1)
		}
		t.Logf("\t%s\tShould get a 64 character lower case hex hash.", success)

		v.Content = "hello!"
		if h3 := digest.Hash(v); h3 == h1 {
			t.Fatalf("\t%s\tShould get a different hash when a field changes.", failed)
		}
		t.Logf("\t%s\tShould get a different hash when a field changes.", success)

		if h := digest.Hash(func() {}); h != digest.ZeroHash {
			t.Fatalf("\t%s\tShould get the zero hash for values that can't be marshaled.", failed)
		}
		t.Logf("\t%s\tShould get the zero hash for values that can't be marshaled.", success)
	}
}

func Test_IsHex(t *testing.T) {
	tt := []struct {
		name string
		hash string
		exp  bool
	}{
		{name: "valid", hash: digest.ZeroHash, exp: true},
		{name: "short", hash: "00ab", exp: false},
		{name: "upper", hash: "00000000000000000000000000000000000000000000000000000000000000AB", exp: false},
		{name: "prefixed", hash: "0x000000000000000000000000000000000000000000000000000000000000ab", exp: false},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			if got := digest.IsHex(tst.hash); got != tst.exp {
				t.Fatalf("\t%s\tTest %s:\tShould get %v, got %v.", failed, tst.name, tst.exp, got)
			}
			t.Logf("\t%s\tTest %s:\tShould get %v.", success, tst.name, tst.exp)
		}

		t.Run(tst.name, f)
	}
}
