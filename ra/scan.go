package ra

import (
	"github.com/fluentgo/fluent/collection"
	"github.com/fluentgo/fluent/hash"
)

// scan is the physical operator backing Scan: it snapshots the source
// collection's entries once (per spec §4.2's "reads of a collection
// observe the pre-tick snapshot for the entirety of a tick") and yields
// one row per distinct stored value, with provenance covering every
// logical time that value was inserted at.
type scan struct {
	name string
	rows []scanRow
	pos  int
}

type scanRow struct {
	value []any
	times []int64
}

// Scan emits one lineaged row per distinct value in coll: provenance is
// {LocalTupleId{coll.Name(), hash(value), t} : t in times(value)}, per
// spec §4.4 "Scan of a collection".
func Scan(coll collection.Collection) Operator {
	var rows []scanRow
	for value, ids := range coll.Entries() {
		rows = append(rows, scanRow{value: value, times: ids.TimesSlice()})
	}
	return &scan{name: coll.Name(), rows: rows}
}

func (s *scan) Next() (Row, bool, error) {
	if s.pos >= len(s.rows) {
		return Row{}, false, nil
	}
	r := s.rows[s.pos]
	s.pos++
	prov := emptyProv()
	h := hash.Tuple(r.value...)
	for _, t := range r.times {
		prov.Add(LocalTupleId{CollectionName: s.name, Hash: h, LogicalTime: t})
	}
	return Row{Value: r.value, Prov: prov}, true, nil
}

// scanMeta is Scan's "iterated as a meta-collection" variant (spec §4.4):
// it emits one row per (value, time) pair instead of collapsing all times
// for a value into one row's provenance. Each emitted row's value is the
// original tuple with the insertion time appended as its final column.
type scanMeta struct {
	name string
	rows []metaRow
	pos  int
}

type metaRow struct {
	value []any
	time  int64
}

// ScanMeta emits one row per (value, time) entry, appending the logical
// time as the row's final column, for rules that need to reason about
// insertion times directly rather than through provenance.
func ScanMeta(coll collection.Collection) Operator {
	var rows []metaRow
	for value, ids := range coll.Entries() {
		for _, t := range ids.TimesSlice() {
			rows = append(rows, metaRow{value: value, time: t})
		}
	}
	return &scanMeta{name: coll.Name(), rows: rows}
}

func (s *scanMeta) Next() (Row, bool, error) {
	if s.pos >= len(s.rows) {
		return Row{}, false, nil
	}
	r := s.rows[s.pos]
	s.pos++
	h := hash.Tuple(r.value...)
	out := make([]any, len(r.value)+1)
	copy(out, r.value)
	out[len(r.value)] = r.time
	prov := emptyProv()
	prov.Add(LocalTupleId{CollectionName: s.name, Hash: h, LogicalTime: r.time})
	return Row{Value: out, Prov: prov}, true, nil
}

// external is "Scan of an external iterable" (spec §4.4): rows sourced
// from outside the engine carry empty provenance, since the engine does
// not own the data.
type external struct {
	rows [][]any
	pos  int
}

// FromSlice wraps a plain [][]any as an external-iterable source. Used to
// feed raw test fixtures or black-box data into a pipeline.
func FromSlice(rows [][]any) Operator {
	return &external{rows: rows}
}

func (e *external) Next() (Row, bool, error) {
	if e.pos >= len(e.rows) {
		return Row{}, false, nil
	}
	v := e.rows[e.pos]
	e.pos++
	return Row{Value: v, Prov: emptyProv()}, true, nil
}
