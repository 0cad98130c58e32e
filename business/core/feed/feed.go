// Package feed turns a chain into the list of posts shown to readers.
package feed

import (
	"sort"
	"time"

	"github.com/yournet/ledger/foundation/blockchain/database"
)

// Post is a record along with the block that holds it.
type Post struct {
	Author     string
	Content    string
	TimeStamp  uint64
	BlockIndex uint64
	BlockHash  string
}

// Time returns the post timestamp as a time value.
func (p Post) Time() time.Time {
	return time.UnixMilli(int64(p.TimeStamp)).UTC()
}

// Build flattens the records of every block into posts, newest first.
// Posts with the same timestamp keep chain order reversed.
func Build(blocks []database.Block) []Post {
	var posts []Post
	for _, block := range blocks {
		for _, rec := range block.Records {
			posts = append(posts, Post{
				Author:     rec.Author,
				Content:    rec.Content,
				TimeStamp:  rec.TimeStamp,
				BlockIndex: block.Index,
				BlockHash:  block.Hash,
			})
		}
	}

	// Reverse first so a stable sort leaves later records in front on ties.
	for i, j := 0, len(posts)-1; i < j; i, j = i+1, j-1 {
		posts[i], posts[j] = posts[j], posts[i]
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].TimeStamp > posts[j].TimeStamp
	})

	return posts
}
