// Package ra implements the lazy, lineage-carrying relational-algebra
// operator tree of spec §4.4: Scan, Map, Filter, Project, Cross, HashJoin,
// GroupBy (with Sum/Count/Avg/Union aggregates), Id, Count, Batch, and
// Unbatch. Every physical operator is a stateful pull-based generator
// whose Next returns an optional lineaged row, per the design note in
// spec §9 ("Lazy generators").
package ra

import (
	"github.com/fluentgo/fluent"
	"github.com/fluentgo/fluent/collection"
)

// LocalTupleId names a single provenance event; re-exported from
// collection so callers of ra need not import both packages for this type.
type LocalTupleId = collection.LocalTupleId

// Provenance is the set of base-tuple identifiers that transitively
// produced a row.
type Provenance = fluent.Set[LocalTupleId]

// Row is a lineaged tuple: a value together with the provenance set that
// produced it (spec §3 "Lineaged tuple").
type Row struct {
	Value []any
	Prov  Provenance
}

func emptyProv() Provenance { return fluent.Set[LocalTupleId]{} }

func unionProv(a, b Provenance) Provenance {
	return a.Union(b)
}

// Operator is a physical, pull-based relational-algebra node. Next
// returns the next row, or ok=false when the operator is exhausted. A
// non-nil error means evaluation cannot continue (e.g. a downstream
// assertion about column types failed); per spec §7 this only ever
// surfaces from setup-time construction or as a defensive runtime check —
// well-typed pipelines never hit it.
type Operator interface {
	Next() (Row, bool, error)
}

// Drain pulls every row out of op, in emission order.
func Drain(op Operator) ([]Row, error) {
	var rows []Row
	for {
		row, ok, err := op.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return rows, nil
		}
		rows = append(rows, row)
	}
}

// singleColumnValues adapts an Operator to lattice.Source: it drains op
// and returns column 0 of every emitted row. Lattices merge against
// single-column expressions per spec §4.3.
type singleColumnValues struct {
	op Operator
}

// AsLatticeSource adapts op to the lattice.Source interface (Values()
// ([]any, error)), so a lattice's Merge(expr) can evaluate an ra pipeline
// without ra depending on the lattice package.
func AsLatticeSource(op Operator) singleColumnValues {
	return singleColumnValues{op: op}
}

func (s singleColumnValues) Values() ([]any, error) {
	rows, err := Drain(s.op)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r.Value[0]
	}
	return out, nil
}
