package collection

import (
	"bufio"
	"io"
	"iter"

	"github.com/fluentgo/fluent/hash"
)

// Stdin is a scratch-like source of single-column string tuples produced
// by reading lines (spec §3, §4.2). A read failure or EOF simply leaves
// Stdin empty for subsequent ticks — it is never an error (spec §7).
type Stdin struct {
	name    string
	cur     store
	scanner *bufio.Scanner
	closed  bool
}

// NewStdin wraps r (typically os.Stdin) as a Stdin collection named name.
func NewStdin(name string, r io.Reader) *Stdin {
	return &Stdin{name: name, cur: newStore(), scanner: bufio.NewScanner(r)}
}

func (s *Stdin) Name() string                                  { return s.name }
func (s *Stdin) Get() map[hash.Hash]*Entry                      { return s.cur.get() }
func (s *Stdin) Entries() iter.Seq2[[]any, *CollectionTupleIds] { return s.cur.entriesSeq() }

// ReadLine reads one line, if available, and merges it as a single-column
// string tuple. Returns false once the underlying reader is exhausted or
// closed; this is not treated as an error anywhere in the engine.
func (s *Stdin) ReadLine(logicalTime int64) bool {
	line, ok := s.Next()
	if !ok {
		return false
	}
	s.Commit(line, logicalTime)
	return true
}

// Next blocks until a line is available and returns it without merging,
// so a caller (node's event loop) can hold no lock across the blocking
// read itself and only take one around Commit.
func (s *Stdin) Next() (string, bool) {
	if s.closed {
		return "", false
	}
	if !s.scanner.Scan() {
		s.closed = true
		return "", false
	}
	return s.scanner.Text(), true
}

// Commit merges a line already obtained from Next as this collection's
// single-column string tuple at logicalTime.
func (s *Stdin) Commit(line string, logicalTime int64) {
	s.cur.merge([]any{line}, logicalTime)
}

// Tick clears the lines read during this tick.
func (s *Stdin) Tick() {
	s.cur.clear()
}
