// Package rule models the declared (target, op, source) triples a node
// evaluates once per tick, per spec §4.4's "rule tagging" and the builder
// surface in §6.
package rule

import "github.com/fluentgo/fluent/ra"

// Op names how a rule's emitted rows are applied to its target collection.
type Op int

const (
	// ImmediateMerge applies the emitted rows to the target during the
	// rule's evaluation, once the source has been drained, so they are
	// visible to later rules in the same tick ("+=").
	ImmediateMerge Op = iota
	// DeferredMerge buffers emitted rows and applies them at tick() ("<=").
	DeferredMerge
	// DeferredDelete buffers emitted rows as deletions, applied at tick()
	// after all deferred merges ("-=").
	DeferredDelete
)

func (o Op) String() string {
	switch o {
	case ImmediateMerge:
		return "+="
	case DeferredMerge:
		return "<="
	case DeferredDelete:
		return "-="
	default:
		return "?"
	}
}

// Rule is one declared (target, op, source) triple plus its bookkeeping:
// a stable number (evaluation order, and the number recorded in the
// lineage store's Rules table), a bootstrap flag, and a debug string
// recorded verbatim for the lineage client (spec §4.5 add_rule). Target
// names the collection by name rather than holding a reference to it, so
// this package needs no dependency on collection or lattice: node
// resolves the name against its own declared collections at evaluation
// time.
type Rule struct {
	Target    string
	Op        Op
	Source    func() (ra.Operator, error)
	Number    int
	Bootstrap bool
	Debug     string
}

// New constructs a Rule. Source is a thunk rather than a built Operator
// because an Operator is a one-shot pull generator: the same rule runs
// once per tick, so it needs a fresh physical plan each time, built
// against that tick's pre-tick collection snapshots.
func New(number int, target string, op Op, bootstrap bool, debug string, source func() (ra.Operator, error)) Rule {
	return Rule{
		Target:    target,
		Op:        op,
		Source:    source,
		Number:    number,
		Bootstrap: bootstrap,
		Debug:     debug,
	}
}
