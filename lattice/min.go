package lattice

import "math"

// Min is the semilattice of T under min. Spec §9 flags the original's
// hard-coded bottom sentinel (1_000_000) as a design smell; here the
// bottom is always caller-supplied via NewMin, with NewMinInt64 offered as
// a convenience for callers who want the original's "sufficiently large
// sentinel" behavior without hard-coding a magic number.
type Min[T Ordered] struct {
	value T
}

// NewMin constructs a Min lattice with an explicit bottom/initial value.
func NewMin[T Ordered](bottom T) *Min[T] {
	return &Min[T]{value: bottom}
}

// NewMinInt64 constructs an int64 Min lattice with math.MaxInt64 as bottom.
func NewMinInt64() *Min[int64] {
	return NewMin[int64](math.MaxInt64)
}

// Merge folds other in via min.
func (m *Min[T]) Merge(other T) {
	if other < m.value {
		m.value = other
	}
}

// MergeMin folds another Min lattice's revealed value in.
func (m *Min[T]) MergeMin(other *Min[T]) {
	m.Merge(other.Reveal())
}

// MergeExpr evaluates src and folds every resulting value into the lattice.
func (m *Min[T]) MergeExpr(src Source) error {
	vals, err := src.Values()
	if err != nil {
		return err
	}
	for _, v := range vals {
		m.Merge(v.(T))
	}
	return nil
}

// Reveal returns the current element.
func (m *Min[T]) Reveal() T {
	return m.value
}

// Tick is a no-op: Min is monotone.
func (m *Min[T]) Tick() {}
