// Package digest provides the hashing support used to link blocks in the
// ledger.
package digest

import (
	"crypto/sha256"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroHash represents a hash code of zeros. It is returned when a value
// can't be marshaled and therefore never satisfies a proof of work.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// Size is the length of a hex encoded SHA-256 digest.
const Size = sha256.Size * 2

// =============================================================================

// Hash returns a unique string for the value. The value is marshaled to JSON
// so struct fields are hashed in declaration order and map keys in sorted
// order. Callers that need a canonical form must declare fields accordingly.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:])
}

// IsHex reports whether the string is a lower case hex encoded digest.
func IsHex(hash string) bool {
	if len(hash) != Size {
		return false
	}

	for i := 0; i < len(hash); i++ {
		c := hash[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}

	return true
}
