package ledgergrp

import "github.com/yournet/ledger/foundation/blockchain/database"

// NewRecord is what a client posts to add content to the ledger. The
// timestamp is assigned by the node.
type NewRecord struct {
	Author  string `json:"author" validate:"required,notblank"`
	Content string `json:"content" validate:"required,notblank"`
}

// status is the simple acknowledgement returned by most endpoints.
type status struct {
	Status string `json:"status"`
}

// mined is returned when a mining request completed with a new block.
type mined struct {
	Status string `json:"status"`
	Index  uint64 `json:"index"`
	Hash   string `json:"hash"`
}

// pending is the set of records waiting for the next block.
type pending []database.Record
