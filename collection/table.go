package collection

import (
	"iter"

	"github.com/fluentgo/fluent/hash"
)

// Table is the persistent collection of spec §4.2: merges apply
// immediately or are deferred to the next tick, and deferred deletes win
// over deferred merges of the same value within one tick.
type Table struct {
	name string
	cur  store
	// deferredMerge and deferredDelete are keyed by hash so that a
	// same-tick merge+delete of the same value collapses to one decision
	// (delete wins) instead of depending on call order.
	deferredMerge  map[hash.Hash]pendingMerge
	deferredDelete map[hash.Hash]struct{}
}

type pendingMerge struct {
	value []any
	times map[int64]struct{}
}

// NewTable constructs an empty Table with the given name.
func NewTable(name string) *Table {
	return &Table{
		name:           name,
		cur:            newStore(),
		deferredMerge:  map[hash.Hash]pendingMerge{},
		deferredDelete: map[hash.Hash]struct{}{},
	}
}

func (t *Table) Name() string { return t.name }

func (t *Table) Get() map[hash.Hash]*Entry { return t.cur.get() }

func (t *Table) Entries() iter.Seq2[[]any, *CollectionTupleIds] { return t.cur.entriesSeq() }

// Merge applies an immediate merge, visible to rules within the same tick
// that read this table after the merge.
func (t *Table) Merge(value []any, logicalTime int64) {
	t.cur.merge(value, logicalTime)
}

// DeferredMerge buffers a merge to be applied at the next Tick.
func (t *Table) DeferredMerge(value []any, logicalTime int64) {
	h := rowHash(value)
	pm, ok := t.deferredMerge[h]
	if !ok {
		pm = pendingMerge{value: value, times: map[int64]struct{}{}}
	}
	pm.times[logicalTime] = struct{}{}
	t.deferredMerge[h] = pm
}

// DeferredDelete buffers a delete to be applied at the next Tick.
func (t *Table) DeferredDelete(value []any, logicalTime int64) {
	t.deferredDelete[rowHash(value)] = struct{}{}
}

// Tick applies buffered merges, then buffered deletes, then clears both
// buffers. A value that was both deferred-merged and deferred-deleted in
// the same tick does not remain afterward ("delete wins", spec §4.2).
func (t *Table) Tick() {
	for h, pm := range t.deferredMerge {
		if _, deleted := t.deferredDelete[h]; deleted {
			continue
		}
		for lt := range pm.times {
			t.cur.merge(pm.value, lt)
		}
	}
	for h := range t.deferredDelete {
		if e, ok := t.cur.entries[h]; ok {
			t.cur.delete(e.Value)
		}
	}
	t.deferredMerge = map[hash.Hash]pendingMerge{}
	t.deferredDelete = map[hash.Hash]struct{}{}
}
