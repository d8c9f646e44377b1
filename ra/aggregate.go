package ra

import "github.com/fluentgo/fluent"

// Aggregator folds a column (or the whole row) of a group into a single
// result value. Zero is the identity for an empty group; Accumulate folds
// one row in; Finish converts the running accumulator into the emitted
// value (identity for Sum/Count/Union, a division for Avg).
type Aggregator interface {
	Zero() any
	Accumulate(acc any, value []any) any
	Finish(acc any) any
	// checkColumnType rejects columnTypes, the source's declared per-column
	// type list, at setup time if this aggregate cannot operate on it (spec's
	// "Sum/Avg on non-uniform column types" configuration error). Aggregates
	// with no type requirement, e.g. Count, always return nil.
	checkColumnType(columnTypes []string) error
}

// numericColumnType reports whether t names one of the numeric column
// types Sum/Avg accept.
func numericColumnType(t string) bool {
	switch t {
	case "int", "int32", "int64", "uint", "uint32", "uint64", "float32", "float64":
		return true
	default:
		return false
	}
}

type sumAgg struct{ col int }

// SumCol sums column col across a group, coercing numeric values to
// float64. Per spec's resolution of the Sum-on-empty Open Question, a
// bare Sum over zero input rows yields 0, not an absent row.
func SumCol(col int) Aggregator { return sumAgg{col: col} }

func (sumAgg) Zero() any { return 0.0 }

func (s sumAgg) Accumulate(acc any, value []any) any {
	return acc.(float64) + toFloat(value[s.col])
}

func (sumAgg) Finish(acc any) any { return acc }

func (s sumAgg) checkColumnType(columnTypes []string) error {
	if s.col < 0 || s.col >= len(columnTypes) {
		return fluent.Errorf("ra.Sum: column %d out of range for %d declared columns: %w", s.col, len(columnTypes), ErrColumnIndexOutOfRange)
	}
	if !numericColumnType(columnTypes[s.col]) {
		return fluent.Errorf("ra.Sum: column %d has non-numeric type %q: %w", s.col, columnTypes[s.col], ErrNonNumericColumn)
	}
	return nil
}

type countAgg struct{}

// CountAgg counts rows in a group, ignoring column values entirely.
func CountAgg() Aggregator { return countAgg{} }

func (countAgg) Zero() any                      { return int64(0) }
func (countAgg) Accumulate(acc any, _ []any) any { return acc.(int64) + 1 }
func (countAgg) Finish(acc any) any              { return acc }

// checkColumnType is a no-op: Count's column indices are informational
// only (spec §4.4), so no column type can make it invalid.
func (countAgg) checkColumnType([]string) error { return nil }

type avgState struct {
	sum   float64
	count int64
}

type avgAgg struct{ col int }

// AvgCol averages column col across a group. Finish divides sum by count;
// an empty group (count==0) is never reached here since GroupBy only
// computes Avg for groups that actually contain rows.
func AvgCol(col int) Aggregator { return avgAgg{col: col} }

func (avgAgg) Zero() any { return avgState{} }

func (a avgAgg) Accumulate(acc any, value []any) any {
	st := acc.(avgState)
	st.sum += toFloat(value[a.col])
	st.count++
	return st
}

func (avgAgg) Finish(acc any) any {
	st := acc.(avgState)
	if st.count == 0 {
		return 0.0
	}
	return st.sum / float64(st.count)
}

func (a avgAgg) checkColumnType(columnTypes []string) error {
	if a.col < 0 || a.col >= len(columnTypes) {
		return fluent.Errorf("ra.Avg: column %d out of range for %d declared columns: %w", a.col, len(columnTypes), ErrColumnIndexOutOfRange)
	}
	if !numericColumnType(columnTypes[a.col]) {
		return fluent.Errorf("ra.Avg: column %d has non-numeric type %q: %w", a.col, columnTypes[a.col], ErrNonNumericColumn)
	}
	return nil
}

type unionAgg struct{ col int }

// UnionCol collects the distinct values of column col within a group into
// a fluent.Set-shaped map, mirroring the Union aggregate of spec §4.4.
func UnionCol(col int) Aggregator { return unionAgg{col: col} }

func (unionAgg) Zero() any { return map[any]struct{}{} }

func (u unionAgg) Accumulate(acc any, value []any) any {
	m := acc.(map[any]struct{})
	m[value[u.col]] = struct{}{}
	return m
}

func (unionAgg) Finish(acc any) any { return acc }

// checkColumnType is a no-op: Union works over any comparable column type.
func (unionAgg) checkColumnType([]string) error { return nil }

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return 0
	}
}
