package collection

import (
	"iter"

	"github.com/fluentgo/fluent/hash"
)

// Scratch is the transient collection of spec §4.2: same merge surface as
// Table, but Tick simply clears its contents.
type Scratch struct {
	name string
	cur  store
}

// NewScratch constructs an empty Scratch with the given name.
func NewScratch(name string) *Scratch {
	return &Scratch{name: name, cur: newStore()}
}

func (s *Scratch) Name() string                                  { return s.name }
func (s *Scratch) Get() map[hash.Hash]*Entry                      { return s.cur.get() }
func (s *Scratch) Entries() iter.Seq2[[]any, *CollectionTupleIds] { return s.cur.entriesSeq() }

// Merge applies an immediate merge, visible within the same tick.
func (s *Scratch) Merge(value []any, logicalTime int64) {
	s.cur.merge(value, logicalTime)
}

// Tick clears the scratch's contents.
func (s *Scratch) Tick() {
	s.cur.clear()
}
