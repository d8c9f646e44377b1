package ra

import "github.com/fluentgo/fluent"

// Id is the identity operator: it passes every row through unchanged.
func Id(src Operator) Operator {
	return src
}

// mapOp applies a pure function to each row's value; provenance passes
// through unchanged. Per the design note in spec §9, it must not allocate
// beyond what f itself allocates: it holds no buffered state.
type mapOp struct {
	src Operator
	f   func([]any) []any
}

// Map transforms each row's value via f. f must be pure: the engine may
// call it any number of times (e.g. during lattice merges or retries) and
// expects identical output for identical input.
func Map(src Operator, f func([]any) []any) Operator {
	return &mapOp{src: src, f: f}
}

func (m *mapOp) Next() (Row, bool, error) {
	row, ok, err := m.src.Next()
	if err != nil || !ok {
		return Row{}, ok, err
	}
	return Row{Value: m.f(row.Value), Prov: row.Prov}, true, nil
}

type filterOp struct {
	src Operator
	p   func([]any) bool
}

// Filter keeps only rows for which p returns true; surviving rows keep
// their provenance unchanged.
func Filter(src Operator, p func([]any) bool) Operator {
	return &filterOp{src: src, p: p}
}

func (f *filterOp) Next() (Row, bool, error) {
	for {
		row, ok, err := f.src.Next()
		if err != nil || !ok {
			return Row{}, ok, err
		}
		if f.p(row.Value) {
			return row, true, nil
		}
	}
}

type projectOp struct {
	src     Operator
	indices []int
}

// NewProject selects and/or duplicates columns by positional index.
// arity is the known column count of src's rows (from the declared
// schema); out-of-range indices are rejected here, at setup time, per
// spec §4.4 ("Out-of-range indices are a compile-time/setup-time error,
// not a runtime condition"). An empty indices list is valid and yields a
// single empty row per input row (spec §8 boundary behavior).
func NewProject(src Operator, arity int, indices ...int) (Operator, error) {
	for _, i := range indices {
		if i < 0 || i >= arity {
			return nil, fluent.Errorf("ra.Project: index %d out of range for arity %d: %w", i, arity, ErrColumnIndexOutOfRange)
		}
	}
	return &projectOp{src: src, indices: indices}, nil
}

func (p *projectOp) Next() (Row, bool, error) {
	row, ok, err := p.src.Next()
	if err != nil || !ok {
		return Row{}, ok, err
	}
	out := make([]any, len(p.indices))
	for i, idx := range p.indices {
		out[i] = row.Value[idx]
	}
	return Row{Value: out, Prov: row.Prov}, true, nil
}

type crossOp struct {
	left, right Operator
	leftRows    []Row
	leftPos     int
	rightRows   []Row
	rightPos    int
	started     bool
}

// Cross is the Cartesian product of L and R's output streams; output
// provenance is the union of both inputs' provenance sets (spec §4.4).
func Cross(left, right Operator) Operator {
	return &crossOp{left: left, right: right}
}

func (c *crossOp) Next() (Row, bool, error) {
	if !c.started {
		rows, err := Drain(c.left)
		if err != nil {
			return Row{}, false, err
		}
		c.leftRows = rows
		rows, err = Drain(c.right)
		if err != nil {
			return Row{}, false, err
		}
		c.rightRows = rows
		c.started = true
	}
	if len(c.leftRows) == 0 || len(c.rightRows) == 0 {
		return Row{}, false, nil
	}
	for {
		if c.leftPos >= len(c.leftRows) {
			return Row{}, false, nil
		}
		l := c.leftRows[c.leftPos]
		r := c.rightRows[c.rightPos]
		c.rightPos++
		if c.rightPos >= len(c.rightRows) {
			c.rightPos = 0
			c.leftPos++
		}
		value := make([]any, 0, len(l.Value)+len(r.Value))
		value = append(value, l.Value...)
		value = append(value, r.Value...)
		return Row{Value: value, Prov: unionProv(l.Prov, r.Prov)}, true, nil
	}
}
