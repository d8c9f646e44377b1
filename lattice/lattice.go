// Package lattice implements the bounded semilattices of spec §4.3: Bool,
// Max, Min, LWW, Set, and Map. Every lattice type exposes an
// associative-commutative-idempotent Merge, a Reveal of the current
// element, and a no-op Tick (lattices are monotone and never cleared).
package lattice

import "cmp"

// Source is a relational expression whose evaluation yields a sequence of
// single-column values. A lattice's Merge(expr) evaluates the expression
// once and folds each resulting value into the lattice. The ra package's
// operator results implement this interface so that lattices never need to
// import ra directly (lattices are evaluated against expressions, not the
// other way around).
type Source interface {
	// Values drains the expression and returns the single column of each
	// resulting row, in emission order.
	Values() ([]any, error)
}

// Tickable is implemented by every lattice. Tick is a contractual no-op:
// lattices evolve monotonically and are never reset by a tick.
type Tickable interface {
	Tick()
}

func mergeSource[T any](l interface{ Merge(T) }, src Source, convert func(any) T) error {
	vals, err := src.Values()
	if err != nil {
		return err
	}
	for _, v := range vals {
		l.Merge(convert(v))
	}
	return nil
}

// Ordered is the constraint satisfied by Max and Min elements.
type Ordered = cmp.Ordered
