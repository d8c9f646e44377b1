package collection

import (
	"iter"
	"time"

	"github.com/fluentgo/fluent/hash"
)

// Periodic is the timer-driven collection of spec §4.2: armed (empty,
// timer running) until it fires, producing a single (id, timestamp) row;
// Tick clears it back to armed. IDs increase monotonically across fires.
type Periodic struct {
	name     string
	period   time.Duration
	cur      store
	nextID   int64
	lastFire time.Time
}

// NewPeriodic constructs a Periodic collection that fires at most once
// per period.
func NewPeriodic(name string, period time.Duration) *Periodic {
	return &Periodic{name: name, period: period, cur: newStore()}
}

func (p *Periodic) Name() string                                  { return p.name }
func (p *Periodic) Get() map[hash.Hash]*Entry                      { return p.cur.get() }
func (p *Periodic) Entries() iter.Seq2[[]any, *CollectionTupleIds] { return p.cur.entriesSeq() }

// Period returns the configured firing period, for the event loop's poll
// scheduling.
func (p *Periodic) Period() time.Duration { return p.period }

// MaybeFire transitions armed -> fired if at least one period has elapsed
// since the last fire, adding a single (id, timestamp) row. Late firings
// coalesce: calling MaybeFire many times within one period only ever adds
// one row, and repeated calls after it has already fired this tick are a
// no-op until the next Tick re-arms it.
func (p *Periodic) MaybeFire(now time.Time, logicalTime int64) bool {
	if len(p.cur.entries) > 0 {
		return false
	}
	if !p.lastFire.IsZero() && now.Sub(p.lastFire) < p.period {
		return false
	}
	p.lastFire = now
	id := p.nextID
	p.nextID++
	p.cur.merge([]any{id, now.UnixNano()}, logicalTime)
	return true
}

// Tick clears the fired row, re-arming the timer.
func (p *Periodic) Tick() {
	p.cur.clear()
}
