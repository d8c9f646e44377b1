package ra

import (
	"fmt"
	"strings"

	"github.com/fluentgo/fluent"
)

// keyString renders a key projection as a comparable string, tagging each
// field with its dynamic type so that e.g. int64(1) and "1" never collide.
// This sidesteps Go's "slice is not comparable" restriction without
// resorting to a hash (and the small risk of hash collisions a hash-keyed
// map would carry).
func keyString(value []any, indices []int) string {
	var b strings.Builder
	for _, idx := range indices {
		fmt.Fprintf(&b, "%T:%v|", value[idx], value[idx])
	}
	return b.String()
}

type hashJoinOp struct {
	left, right    Operator
	leftKeys       []int
	rightKeys      []int
	index          map[string][]Row
	built          bool
	rightRows      []Row
	rightPos       int
	matches        []Row
	matchPos       int
}

// NewHashJoin builds an equi-join operator on the listed column indices,
// per spec §4.4: L is materialized into a hash index keyed by the L-key
// projection, then R is streamed and each match emitted as (l⊕r,
// prov(l)∪prov(r)). leftKeys and rightKeys must have equal length
// (checked at setup time, a configuration error otherwise); repeated
// indices within one side are permitted and simply add an equality
// constraint on that column against itself.
func NewHashJoin(left, right Operator, leftKeys, rightKeys []int) (Operator, error) {
	if len(leftKeys) != len(rightKeys) {
		return nil, fluent.Errorf("ra.HashJoin: left key arity %d does not match right key arity %d: %w", len(leftKeys), len(rightKeys), ErrKeyArityMismatch)
	}
	return &hashJoinOp{left: left, right: right, leftKeys: leftKeys, rightKeys: rightKeys}, nil
}

func (j *hashJoinOp) build() error {
	j.index = map[string][]Row{}
	rows, err := Drain(j.left)
	if err != nil {
		return err
	}
	for _, row := range rows {
		k := keyString(row.Value, j.leftKeys)
		j.index[k] = append(j.index[k], row)
	}
	rightRows, err := Drain(j.right)
	if err != nil {
		return err
	}
	j.rightRows = rightRows
	j.built = true
	return nil
}

func (j *hashJoinOp) Next() (Row, bool, error) {
	if !j.built {
		if err := j.build(); err != nil {
			return Row{}, false, err
		}
	}
	for {
		if j.matchPos < len(j.matches) {
			m := j.matches[j.matchPos]
			j.matchPos++
			return m, true, nil
		}
		if j.rightPos >= len(j.rightRows) {
			return Row{}, false, nil
		}
		r := j.rightRows[j.rightPos]
		j.rightPos++
		k := keyString(r.Value, j.rightKeys)
		lmatches := j.index[k]
		j.matches = j.matches[:0]
		for _, l := range lmatches {
			value := make([]any, 0, len(l.Value)+len(r.Value))
			value = append(value, l.Value...)
			value = append(value, r.Value...)
			j.matches = append(j.matches, Row{Value: value, Prov: unionProv(l.Prov, r.Prov)})
		}
		j.matchPos = 0
	}
}
