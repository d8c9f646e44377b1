package collection

import (
	"iter"

	"github.com/fluentgo/fluent/hash"
)

// Collection is the read/tick capability shared by every collection kind,
// per the design note in spec §9 ("Collection heterogeneity via
// polymorphism over a capability set").
type Collection interface {
	// Name returns the collection's declared name.
	Name() string
	// Tick applies any deferred state and clears per-tick state, per the
	// kind-specific contract in spec §4.2.
	Tick()
	// Get returns the current value -> CollectionTupleIds mapping, keyed
	// by the value's stable hash (Go slices can't be map keys directly,
	// so each entry carries its own value alongside its ids).
	Get() map[hash.Hash]*Entry
	// Entries iterates the collection's (value, ids) pairs for use as an
	// operator source. Iteration order is unspecified but deterministic
	// for identical state, per spec §4.4.
	Entries() iter.Seq2[[]any, *CollectionTupleIds]
}

// Entry pairs a stored tuple value with its provenance (the set of
// logical times at which it was inserted).
type Entry struct {
	Value []any
	Ids   *CollectionTupleIds
}

// Mutable is the immediate-merge capability: Table and Scratch store the
// merged tuple; Channel's Merge transmits it and Stdout's Merge writes it
// as a line instead.
type Mutable interface {
	Collection
	// Merge ensures the entry for value exists and inserts logicalTime
	// into its times set. Idempotent in (value, logicalTime).
	Merge(value []any, logicalTime int64)
}

// Deferrable is the deferred-merge/deferred-delete capability; only Table
// supports it (spec §4.2).
type Deferrable interface {
	Mutable
	DeferredMerge(value []any, logicalTime int64)
	DeferredDelete(value []any, logicalTime int64)
}
