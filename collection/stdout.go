package collection

import (
	"bufio"
	"io"
	"iter"

	"github.com/fluentgo/fluent/hash"
)

// Stdout is the sink collection of spec §4.2: an immediate merge writes a
// line synchronously; a deferred merge buffers the line and all buffered
// lines are flushed, in order, at the next Tick.
type Stdout struct {
	name    string
	w       *bufio.Writer
	pending []string
}

// NewStdout wraps w (typically os.Stdout) as a Stdout collection named name.
func NewStdout(name string, w io.Writer) *Stdout {
	return &Stdout{name: name, w: bufio.NewWriter(w)}
}

func (s *Stdout) Name() string { return s.name }

// Get exposes the currently buffered (not yet flushed) lines, each as a
// single-column string tuple, keyed by hash like every other collection.
func (s *Stdout) Get() map[hash.Hash]*Entry {
	out := make(map[hash.Hash]*Entry, len(s.pending))
	for _, line := range s.pending {
		value := []any{line}
		h := rowHash(value)
		out[h] = &Entry{Value: value, Ids: newCollectionTupleIds(h)}
	}
	return out
}

func (s *Stdout) Entries() iter.Seq2[[]any, *CollectionTupleIds] {
	return func(yield func([]any, *CollectionTupleIds) bool) {
		for _, line := range s.pending {
			value := []any{line}
			h := rowHash(value)
			if !yield(value, newCollectionTupleIds(h)) {
				return
			}
		}
	}
}

// Merge writes line immediately: line must be the sole column of value.
func (s *Stdout) Merge(value []any, logicalTime int64) {
	line := value[0].(string)
	_, _ = s.w.WriteString(line)
	_, _ = s.w.WriteString("\n")
	_ = s.w.Flush()
}

// DeferredMerge buffers line to be flushed at the next Tick.
func (s *Stdout) DeferredMerge(value []any, logicalTime int64) {
	s.pending = append(s.pending, value[0].(string))
}

// Tick flushes buffered lines in insertion order, then clears the buffer.
func (s *Stdout) Tick() {
	for _, line := range s.pending {
		_, _ = s.w.WriteString(line)
		_, _ = s.w.WriteString("\n")
	}
	_ = s.w.Flush()
	s.pending = nil
}
