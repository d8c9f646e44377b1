// Package collection implements the typed, tick-aware containers of spec
// §3/§4.2: Table, Scratch, Channel, Stdin, Stdout, and Periodic. Every
// collection stores tuples as []any (the "tagged-variant row
// representation" of the design notes in spec §9), keyed by their stable
// hash.Hash so that equal tuple values are identified regardless of
// insertion order.
package collection

import "github.com/fluentgo/fluent/hash"

// LocalTupleId is the lineage primary key of spec §3: it names a single
// provenance event — a specific tuple value, in a specific collection, as
// of a specific logical time.
type LocalTupleId struct {
	CollectionName string
	Hash           hash.Hash
	LogicalTime    int64
}

// CollectionTupleIds records, for one tuple value stored in a collection,
// every logical time at which it was inserted. Re-inserting the same
// value at the same logical time is idempotent; inserting it again at a
// new logical time grows the set (spec §3, §4.2 "Merge semantics").
type CollectionTupleIds struct {
	Hash  hash.Hash
	Times map[int64]struct{}
}

func newCollectionTupleIds(h hash.Hash) *CollectionTupleIds {
	return &CollectionTupleIds{Hash: h, Times: map[int64]struct{}{}}
}

func (c *CollectionTupleIds) insert(t int64) {
	c.Times[t] = struct{}{}
}

// TimesSlice returns the insertion times in unspecified order.
func (c *CollectionTupleIds) TimesSlice() []int64 {
	out := make([]int64, 0, len(c.Times))
	for t := range c.Times {
		out = append(out, t)
	}
	return out
}
