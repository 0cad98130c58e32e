package database

import (
	"fmt"
	"time"
)

// Record represents a piece of user content submitted to the ledger. The json
// field names are declared in sorted order since the record is part of the
// canonical form used to hash a block.
type Record struct {
	Author    string `json:"author"`    // Who submitted the content.
	Content   string `json:"content"`   // The content being shared.
	TimeStamp uint64 `json:"timestamp"` // Unix milliseconds the node accepted the record.
}

// NewRecord constructs a record stamped with the current time.
func NewRecord(author string, content string) Record {
	return Record{
		Author:    author,
		Content:   content,
		TimeStamp: Now(),
	}
}

// String implements the fmt.Stringer interface for logging.
func (r Record) String() string {
	return fmt.Sprintf("%s:%d", r.Author, r.TimeStamp)
}

// Now returns the current UTC time in unix milliseconds, the resolution used
// for every timestamp stored in the ledger.
func Now() uint64 {
	return uint64(time.Now().UTC().UnixMilli())
}
