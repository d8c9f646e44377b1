package collection_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/fluentgo/fluent/collection"
)

// scenario 1: table persistence.
func TestTablePersistence(t *testing.T) {
	tbl := collection.NewTable("t")
	tbl.Merge([]any{"a", "a"}, 0)
	tbl.Tick()

	got := tbl.Get()
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	for _, e := range got {
		if e.Value[0] != "a" || e.Value[1] != "a" {
			t.Fatalf("unexpected value %#v", e.Value)
		}
		if _, ok := e.Ids.Times[0]; !ok {
			t.Fatal("expected logical time 0 recorded")
		}
	}
}

// scenario 2: scratch clears after tick.
func TestScratchClears(t *testing.T) {
	s := collection.NewScratch("s")
	s.Merge([]any{"a", "a"}, 0)
	s.Tick()
	if len(s.Get()) != 0 {
		t.Fatalf("expected empty scratch after tick, got %d entries", len(s.Get()))
	}
}

// scenario 3: deferred delete wins.
func TestTableDeferredDeleteWins(t *testing.T) {
	tbl := collection.NewTable("t")
	tbl.DeferredMerge([]any{"a", "a"}, 0)
	tbl.DeferredMerge([]any{"b", "b"}, 1)
	tbl.DeferredDelete([]any{"b", "b"}, 2)
	tbl.DeferredDelete([]any{"c", "c"}, 3)
	tbl.Tick()

	got := tbl.Get()
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 surviving entry, got %d", len(got))
	}
	for _, e := range got {
		if e.Value[0] != "a" || e.Value[1] != "a" {
			t.Fatalf("expected only ('a','a') to survive, got %#v", e.Value)
		}
	}
}

// scenario 4: stdout deferred merge flushes in order at tick.
func TestStdoutDeferredFlush(t *testing.T) {
	buf := &bytes.Buffer{}
	out := collection.NewStdout("out", buf)
	out.DeferredMerge([]any{"hello"}, 0)
	out.DeferredMerge([]any{"world"}, 1)
	out.Tick()

	if got := buf.String(); got != "hello\nworld\n" {
		t.Fatalf("expected %q, got %q", "hello\nworld\n", got)
	}
}

func TestStdoutImmediateMerge(t *testing.T) {
	buf := &bytes.Buffer{}
	out := collection.NewStdout("out", buf)
	out.Merge([]any{"now"}, 0)
	if got := buf.String(); got != "now\n" {
		t.Fatalf("expected immediate flush, got %q", got)
	}
}

func TestMergeIdempotentSameTime(t *testing.T) {
	tbl := collection.NewTable("t")
	tbl.Merge([]any{"a"}, 0)
	before := len(tbl.Get())
	tbl.Merge([]any{"a"}, 0)
	after := len(tbl.Get())
	if before != after {
		t.Fatal("re-merging same (value,time) must be a no-op")
	}
	for _, e := range tbl.Get() {
		if len(e.Ids.Times) != 1 {
			t.Fatalf("expected exactly one recorded time, got %d", len(e.Ids.Times))
		}
	}
}

func TestMergeGrowsTimesForDifferentLogicalTime(t *testing.T) {
	tbl := collection.NewTable("t")
	tbl.Merge([]any{"a"}, 0)
	tbl.Merge([]any{"a"}, 1)
	for _, e := range tbl.Get() {
		if len(e.Ids.Times) != 2 {
			t.Fatalf("expected two recorded times, got %d", len(e.Ids.Times))
		}
	}
}

func TestDeleteOfAbsentTupleIsNoop(t *testing.T) {
	tbl := collection.NewTable("t")
	tbl.DeferredDelete([]any{"nope"}, 0)
	tbl.Tick() // must not panic
	if len(tbl.Get()) != 0 {
		t.Fatal("expected empty table")
	}
}

func TestPeriodicArmedFiredArmed(t *testing.T) {
	p := collection.NewPeriodic("clock", 0)
	now := time.Now()
	if !p.MaybeFire(now, 0) {
		t.Fatal("expected first MaybeFire to fire")
	}
	if len(p.Get()) != 1 {
		t.Fatal("expected one fired row")
	}
	p.Tick()
	if len(p.Get()) != 0 {
		t.Fatal("expected periodic to re-arm (empty) after tick")
	}
}

func TestChannelDeliverVisibleOneTick(t *testing.T) {
	ch := collection.NewChannel("c", nil, nil)
	ch.Deliver([]any{"payload"}, 0)
	if len(ch.Get()) != 1 {
		t.Fatal("expected delivered tuple visible")
	}
	ch.Tick()
	if len(ch.Get()) != 0 {
		t.Fatal("expected delivered tuple cleared after tick")
	}
}
