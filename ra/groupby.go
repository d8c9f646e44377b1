package ra

type group struct {
	keyValues []any
	prov      Provenance
	acc       []any
}

type groupByOp struct {
	src        Operator
	keyIndices []int
	aggs       []Aggregator
	groups     []*group
	built      bool
	pos        int
}

// NewGroupBy partitions src's rows by the values at keyIndices and folds
// each partition through aggs, per spec §4.4. A group's output row is its
// key columns followed by each aggregate's Finish result, in declaration
// order; its provenance is the union of every row that fell into it.
//
// columnTypes is src's declared per-column type list. It is checked
// against every aggregate in aggs at setup time, the same way NewProject
// checks its indices against arity: a Sum or Avg over a non-numeric
// column is a configuration error (spec §8), not a value silently
// computed as 0.
//
// Groups are emitted only for keys that actually occurred: an entirely
// empty input (with or without keys) yields zero rows, never a
// zero-valued aggregate row. The standalone Sum and Count operators are
// the exception the spec carves out — unlike GroupBy, they always
// collapse to a single row, even over empty input.
func NewGroupBy(src Operator, columnTypes []string, keyIndices []int, aggs ...Aggregator) (Operator, error) {
	for _, agg := range aggs {
		if err := agg.checkColumnType(columnTypes); err != nil {
			return nil, err
		}
	}
	return &groupByOp{src: src, keyIndices: keyIndices, aggs: aggs}, nil
}

func (g *groupByOp) build() error {
	rows, err := Drain(g.src)
	if err != nil {
		return err
	}
	index := map[string]*group{}
	var order []string

	newGroup := func(keyValues []any) *group {
		acc := make([]any, len(g.aggs))
		for i, agg := range g.aggs {
			acc[i] = agg.Zero()
		}
		return &group{keyValues: keyValues, prov: emptyProv(), acc: acc}
	}

	for _, row := range rows {
		k := keyString(row.Value, g.keyIndices)
		grp, ok := index[k]
		if !ok {
			keyValues := make([]any, len(g.keyIndices))
			for i, idx := range g.keyIndices {
				keyValues[i] = row.Value[idx]
			}
			grp = newGroup(keyValues)
			index[k] = grp
			order = append(order, k)
		}
		grp.prov = unionProv(grp.prov, row.Prov)
		for i, agg := range g.aggs {
			grp.acc[i] = agg.Accumulate(grp.acc[i], row.Value)
		}
	}
	g.groups = make([]*group, 0, len(order))
	for _, k := range order {
		g.groups = append(g.groups, index[k])
	}
	return nil
}

func (g *groupByOp) Next() (Row, bool, error) {
	if !g.built {
		if err := g.build(); err != nil {
			return Row{}, false, err
		}
		g.built = true
	}
	if g.pos >= len(g.groups) {
		return Row{}, false, nil
	}
	grp := g.groups[g.pos]
	g.pos++
	value := make([]any, 0, len(grp.keyValues)+len(g.aggs))
	value = append(value, grp.keyValues...)
	for i, agg := range g.aggs {
		value = append(value, agg.Finish(grp.acc[i]))
	}
	return Row{Value: value, Prov: grp.prov}, true, nil
}
