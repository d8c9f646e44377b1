package collection

import (
	"iter"
	"slices"

	"github.com/fluentgo/fluent/hash"
)

// store is the shared value->ids map used by every collection kind. It is
// not exported: each collection type embeds it and exposes the
// Collection/Mutable surface appropriate to its kind.
type store struct {
	entries map[hash.Hash]*Entry
}

func newStore() store {
	return store{entries: map[hash.Hash]*Entry{}}
}

func rowHash(value []any) hash.Hash {
	return hash.Tuple(value...)
}

// merge ensures an entry for value exists and inserts logicalTime into its
// times set; idempotent in (value, logicalTime).
func (s *store) merge(value []any, logicalTime int64) {
	h := rowHash(value)
	e, ok := s.entries[h]
	if !ok {
		e = &Entry{Value: slices.Clone(value), Ids: newCollectionTupleIds(h)}
		s.entries[h] = e
	}
	e.Ids.insert(logicalTime)
}

// delete removes the entry for value entirely, regardless of how many
// logical times it was inserted at. A delete of an absent value is a
// no-op (spec §4.2: "same-tick deletes of absent tuples are no-ops").
func (s *store) delete(value []any) {
	delete(s.entries, rowHash(value))
}

func (s *store) clear() {
	s.entries = map[hash.Hash]*Entry{}
}

func (s *store) get() map[hash.Hash]*Entry {
	return s.entries
}

func (s *store) entriesSeq() iter.Seq2[[]any, *CollectionTupleIds] {
	return func(yield func([]any, *CollectionTupleIds) bool) {
		keys := make([]hash.Hash, 0, len(s.entries))
		for k := range s.entries {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			e := s.entries[k]
			if !yield(e.Value, e.Ids) {
				return
			}
		}
	}
}
