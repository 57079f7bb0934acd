// Package localid generates locally unique, monotonically ordered record IDs.
//
// IDs are never reused within a generator's lifetime and sort in arrival
// order, which makes them safe to use as rendering keys and as membership
// keys for ephemeral UI state. They carry no meaning beyond that; in
// particular they must never be used for deduplication.
package localid

import (
	"strconv"
	"sync/atomic"
	"time"
)

// Base62 alphabet: 0-9, A-Z, a-z (62 characters)
const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// encodeBase62 encodes a non-negative integer as a fixed-width base62 string.
// Fixed width keeps the output lexicographically sortable.
func encodeBase62(n int64, width int) string {
	result := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		result[i] = base62Alphabet[n%62]
		n = n / 62
	}
	return string(result)
}

// Generator produces IDs of the form "<prefix><epoch-base62>-<sequence>".
// The epoch component is fixed at construction time so that two generators
// created at different times cannot collide even if their sequences align.
type Generator struct {
	prefix string
	epoch  string
	seq    atomic.Uint64
}

// NewGenerator creates a Generator with the given prefix (may be empty).
func NewGenerator(prefix string) *Generator {
	return &Generator{
		prefix: prefix,
		epoch:  encodeBase62(time.Now().Unix(), 6),
	}
}

// Next returns the next ID. Safe for concurrent use.
func (g *Generator) Next() string {
	n := g.seq.Add(1)
	return g.prefix + g.epoch + "-" + strconv.FormatUint(n, 10)
}

// Count returns how many IDs have been issued so far.
func (g *Generator) Count() uint64 {
	return g.seq.Load()
}
