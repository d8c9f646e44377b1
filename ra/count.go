package ra

// foldOp collapses src's entire output into one row via a single
// Aggregator, unconditionally emitting exactly one row — even over empty
// input. This is what distinguishes the standalone Count/Sum operators
// from GroupBy-with-no-keys, which emits nothing for empty input.
type foldOp struct {
	src  Operator
	agg  Aggregator
	done bool
}

func (f *foldOp) Next() (Row, bool, error) {
	if f.done {
		return Row{}, false, nil
	}
	f.done = true
	rows, err := Drain(f.src)
	if err != nil {
		return Row{}, false, err
	}
	acc := f.agg.Zero()
	prov := emptyProv()
	for _, row := range rows {
		acc = f.agg.Accumulate(acc, row.Value)
		prov = unionProv(prov, row.Prov)
	}
	return Row{Value: []any{f.agg.Finish(acc)}, Prov: prov}, true, nil
}

// Count collapses src's entire output into a single row holding the row
// count, with provenance the union of every input row's provenance. On
// empty input it still emits one row, {0}, with empty provenance — there
// is nothing to union lineage from. Spec §4.4's standalone Count.
func Count(src Operator) Operator {
	return &foldOp{src: src, agg: CountAgg()}
}

// Sum collapses src's entire output into a single row holding the sum of
// column col, with the same always-emit-one-row contract as Count. This
// is the "Sum on a typed scan" exception spec §4.4 calls out: unlike
// GroupBy, a bare Sum over empty input reads 0, not nothing.
func Sum(src Operator, col int) Operator {
	return &foldOp{src: src, agg: SumCol(col)}
}
