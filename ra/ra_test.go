package ra_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rodaine/table"

	"github.com/fluentgo/fluent/ra"
)

func drainValues(t *testing.T, op ra.Operator) [][]any {
	t.Helper()
	rows, err := ra.Drain(op)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = r.Value
	}
	return out
}

// dumpRows renders rows as a table to t.Log, so a row-count mismatch
// failure shows the whole actual output instead of just a count.
func dumpRows(t *testing.T, label string, rows [][]any) {
	t.Helper()
	var buf bytes.Buffer
	tbl := table.New("#", "row").WithWriter(&buf)
	for i, row := range rows {
		tbl.AddRow(i, fmt.Sprintf("%v", row))
	}
	tbl.Print()
	t.Logf("%s:\n%s", label, buf.String())
}

// scenario 5: join on equal keys.
func TestHashJoinScenario5(t *testing.T) {
	left := ra.FromSlice([][]any{
		{1, 1.0}, {1, 2.0}, {2, 3.0}, {3, 4.0}, {3, 5.0}, {4, 6.0},
	})
	right := ra.FromSlice([][]any{
		{1, "a"}, {1, "b"}, {2, "c"}, {2, "d"}, {3, "e"}, {5, "f"},
	})
	join, err := ra.NewHashJoin(left, right, []int{0}, []int{0})
	if err != nil {
		t.Fatalf("unexpected setup error: %v", err)
	}
	got := drainValues(t, join)

	want := [][]any{
		{1, 1.0, 1, "a"}, {1, 2.0, 1, "a"},
		{1, 1.0, 1, "b"}, {1, 2.0, 1, "b"},
		{2, 3.0, 2, "c"}, {2, 3.0, 2, "d"},
		{3, 4.0, 3, "e"}, {3, 5.0, 3, "e"},
	}
	if len(got) != len(want) {
		dumpRows(t, "got", got)
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if diff := cmp.Diff(want[i], got[i]); diff != "" {
			t.Fatalf("row %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestHashJoinKeyArityMismatchIsSetupError(t *testing.T) {
	_, err := ra.NewHashJoin(ra.FromSlice(nil), ra.FromSlice(nil), []int{0, 1}, []int{0})
	if !errors.Is(err, ra.ErrKeyArityMismatch) {
		t.Fatalf("expected ErrKeyArityMismatch, got %v", err)
	}
}

func TestHashJoinEmptyYieldsEmpty(t *testing.T) {
	join, err := ra.NewHashJoin(ra.FromSlice(nil), ra.FromSlice([][]any{{1, "a"}}), []int{0}, []int{0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := drainValues(t, join)
	if len(got) != 0 {
		t.Fatalf("expected empty output, got %#v", got)
	}
}

// scenario 6: GroupBy with Keys<0>, Sum<1>, Count<2>, Avg<3>.
func TestGroupByScenario6(t *testing.T) {
	src := ra.FromSlice([][]any{
		{1, 2, 9, 1.0}, {1, 3, 8, 2.0}, {1, 1, 0, 3.0},
		{2, 1, 5, 3.0}, {2, 2, 9, 4.0}, {2, 8, 3, 5.0},
		{3, 3, 9, 4.0}, {3, 2, 3, 5.0}, {3, 1, 1, 6.0}, {3, 0, 0, 7.0}, {3, 0, 0, 8.0},
	})
	columnTypes := []string{"int64", "int64", "int64", "float64"}
	gb, err := ra.NewGroupBy(src, columnTypes, []int{0}, ra.SumCol(1), ra.CountAgg(), ra.AvgCol(3))
	if err != nil {
		t.Fatalf("unexpected setup error: %v", err)
	}
	got := drainValues(t, gb)

	want := map[float64][]any{
		1: {1, 6.0, int64(3), 2.0},
		2: {2, 11.0, int64(3), 4.0},
		3: {3, 6.0, int64(5), 6.0},
	}
	if len(got) != len(want) {
		dumpRows(t, "got", got)
		t.Fatalf("expected %d groups, got %d", len(want), len(got))
	}
	for _, row := range got {
		key := toFloatForTest(row[0])
		expected, ok := want[key]
		if !ok {
			t.Fatalf("unexpected group key %#v", row[0])
		}
		if diff := cmp.Diff(expected, row); diff != "" {
			t.Fatalf("group %v mismatch (-want +got):\n%s", key, diff)
		}
	}
}

func toFloatForTest(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

func TestGroupByEmptyKeysEmptyInputYieldsEmpty(t *testing.T) {
	gb, err := ra.NewGroupBy(ra.FromSlice(nil), []string{"float64"}, nil, ra.SumCol(0))
	if err != nil {
		t.Fatalf("unexpected setup error: %v", err)
	}
	got := drainValues(t, gb)
	if len(got) != 0 {
		t.Fatalf("expected zero rows, got %#v", got)
	}
}

func TestGroupBySumOnNonNumericColumnIsSetupError(t *testing.T) {
	_, err := ra.NewGroupBy(ra.FromSlice(nil), []string{"string"}, nil, ra.SumCol(0))
	if !errors.Is(err, ra.ErrNonNumericColumn) {
		t.Fatalf("expected ErrNonNumericColumn, got %v", err)
	}
}

func TestGroupByAvgColumnIndexOutOfRangeIsSetupError(t *testing.T) {
	_, err := ra.NewGroupBy(ra.FromSlice(nil), []string{"int64"}, nil, ra.AvgCol(5))
	if !errors.Is(err, ra.ErrColumnIndexOutOfRange) {
		t.Fatalf("expected ErrColumnIndexOutOfRange, got %v", err)
	}
}

func TestSumOnEmptyTypedScanEmitsZero(t *testing.T) {
	got := drainValues(t, ra.Sum(ra.FromSlice(nil), 0))
	if len(got) != 1 || got[0][0] != 0.0 {
		t.Fatalf("expected single row {0}, got %#v", got)
	}
}

func TestCountOnEmptyYieldsZero(t *testing.T) {
	got := drainValues(t, ra.Count(ra.FromSlice(nil)))
	if len(got) != 1 || got[0][0] != int64(0) {
		t.Fatalf("expected {0}, got %#v", got)
	}
}

func TestCrossEmptyYieldsEmpty(t *testing.T) {
	got := drainValues(t, ra.Cross(ra.FromSlice(nil), ra.FromSlice([][]any{{1}})))
	if len(got) != 0 {
		t.Fatalf("expected empty cross, got %#v", got)
	}
}

func TestCrossProduct(t *testing.T) {
	left := ra.FromSlice([][]any{{1}, {2}})
	right := ra.FromSlice([][]any{{"a"}, {"b"}})
	got := drainValues(t, ra.Cross(left, right))
	want := [][]any{{1, "a"}, {1, "b"}, {2, "a"}, {2, "b"}}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %#v", len(want), got)
	}
	for i := range want {
		if diff := cmp.Diff(want[i], got[i]); diff != "" {
			t.Fatalf("row %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestProjectEmptyIndicesYieldsOneEmptyRowPerInput(t *testing.T) {
	src := ra.FromSlice([][]any{{1, 2}, {3, 4}})
	proj, err := ra.NewProject(src, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := drainValues(t, proj)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %#v", got)
	}
	for _, row := range got {
		if len(row) != 0 {
			t.Fatalf("expected empty row, got %#v", row)
		}
	}
}

func TestProjectOutOfRangeIndexIsSetupError(t *testing.T) {
	_, err := ra.NewProject(ra.FromSlice(nil), 2, 5)
	if !errors.Is(err, ra.ErrColumnIndexOutOfRange) {
		t.Fatalf("expected ErrColumnIndexOutOfRange, got %v", err)
	}
}

func TestBatchUnbatchRoundTrip(t *testing.T) {
	src := ra.FromSlice([][]any{{1}, {2}, {3}})
	batched := ra.Batch(src)
	rows, err := ra.Drain(batched)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected a single batched row, got %d", len(rows))
	}

	unbatched := drainValues(t, ra.Unbatch(ra.FromSlice([][]any{{rows[0].Value[0]}})))
	want := [][]any{{1}, {2}, {3}}
	if len(unbatched) != len(want) {
		t.Fatalf("expected %d rows, got %#v", len(want), unbatched)
	}
	for i := range want {
		if diff := cmp.Diff(want[i], unbatched[i]); diff != "" {
			t.Fatalf("row %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}
