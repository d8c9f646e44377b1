package ra

// Batch collects src's entire output into a single row whose lone column
// holds every input row's value as an element of a []any set, with
// provenance the union of all inputs. It is the dual of Unbatch, and
// exists to let a pipeline stage hand a whole relation to a lattice or a
// channel send as one tuple (spec §4.4).
func Batch(src Operator) Operator {
	return &batchOp{src: src}
}

type batchOp struct {
	src  Operator
	done bool
	emit bool
}

func (b *batchOp) Next() (Row, bool, error) {
	if b.done {
		return Row{}, false, nil
	}
	b.done = true
	rows, err := Drain(b.src)
	if err != nil {
		return Row{}, false, err
	}
	batched := make([]any, len(rows))
	prov := emptyProv()
	for i, r := range rows {
		batched[i] = r.Value
		prov = unionProv(prov, r.Prov)
	}
	return Row{Value: []any{batched}, Prov: prov}, true, nil
}

// Unbatch is Batch's inverse: each input row's column 0 must hold a
// []any of tuples (each itself a []any), which are exploded back into one
// output row per element. Every exploded row inherits the batched row's
// full provenance, since the engine cannot tell which original rows
// contributed which elements once they have been merged into a batch.
func Unbatch(src Operator) Operator {
	return &unbatchOp{src: src}
}

type unbatchOp struct {
	src     Operator
	pending []any
	prov    Provenance
	pos     int
}

func (u *unbatchOp) Next() (Row, bool, error) {
	for {
		if u.pos < len(u.pending) {
			v := u.pending[u.pos]
			u.pos++
			value, _ := v.([]any)
			return Row{Value: value, Prov: u.prov}, true, nil
		}
		row, ok, err := u.src.Next()
		if err != nil || !ok {
			return Row{}, false, err
		}
		elems, _ := row.Value[0].([]any)
		u.pending = elems
		u.prov = row.Prov
		u.pos = 0
	}
}
