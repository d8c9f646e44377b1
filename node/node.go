package node

import (
	"context"
	"sync"
	"time"

	"github.com/fluentgo/fluent"
	"github.com/fluentgo/fluent/collection"
	"github.com/fluentgo/fluent/hash"
	"github.com/fluentgo/fluent/lineagedb"
	"github.com/fluentgo/fluent/ra"
	"github.com/fluentgo/fluent/rule"
)

func derivedHash(value []any) hash.Hash {
	return hash.Tuple(value...)
}

// Node is a single dataflow node: a declared set of collections, a
// declared ordered set of rules, and a lineage client, evaluated one
// tick at a time (spec §2, §5).
type Node struct {
	mu sync.Mutex

	name    string
	address string
	lineage lineagedb.Client

	collections map[string]collection.Collection
	columns     map[string][]string
	order       []string // declaration order, for deterministic Tick() calls
	rules       []rule.Rule

	logicalTime  int64
	bootstrapped bool

	stdins    map[string]*collection.Stdin
	periodics map[string]*collection.Periodic
	channels  map[string]*collection.Channel
}

// Name returns the node's registered name.
func (n *Node) Name() string { return n.name }

// Address returns the node's registered address.
func (n *Node) Address() string { return n.address }

// Collection looks up a declared collection by name for rule source
// expressions to scan (spec §4.4's Scan/ScanMeta).
func (n *Node) Collection(name string) (collection.Collection, bool) {
	c, ok := n.collections[name]
	return c, ok
}

// LogicalTime returns the current tick counter.
func (n *Node) LogicalTime() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.logicalTime
}

func (n *Node) mutableTarget(name string) (collection.Mutable, error) {
	c, ok := n.collections[name]
	if !ok {
		return nil, fluent.Errorf("node: rule targets undeclared collection %q: %w", name, ErrUnknownCollection)
	}
	m, ok := c.(collection.Mutable)
	if !ok {
		return nil, fluent.Errorf("node: collection %q is not mutable: %w", name, ErrNotMutable)
	}
	return m, nil
}

// Tick evaluates every non-bootstrap rule once, in declaration order,
// then ticks every collection, per spec §5's "within a tick, rules
// execute in the order they were declared" and §4.2's tick semantics.
// Bootstrap rules run exactly once, on the first call only, before any
// normal rule.
func (n *Node) Tick(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.bootstrapped {
		for _, r := range n.rules {
			if r.Bootstrap {
				if err := n.evalRule(ctx, r); err != nil {
					return err
				}
			}
		}
		n.bootstrapped = true
	}

	for _, r := range n.rules {
		if r.Bootstrap {
			continue
		}
		if err := n.evalRule(ctx, r); err != nil {
			return err
		}
	}

	for _, name := range n.order {
		n.collections[name].Tick()
	}
	n.logicalTime++
	return nil
}

func (n *Node) evalRule(ctx context.Context, r rule.Rule) error {
	target, err := n.mutableTarget(r.Target)
	if err != nil {
		return err
	}
	op, err := r.Source()
	if err != nil {
		return fluent.WithStack(err)
	}
	rows, err := ra.Drain(op)
	if err != nil {
		return fluent.WithStack(err)
	}

	physicalTime := time.Now()
	for _, row := range rows {
		switch r.Op {
		case rule.ImmediateMerge:
			target.Merge(row.Value, n.logicalTime)
			if err := n.lineage.InsertTuple(ctx, r.Target, n.logicalTime, physicalTime, row.Value); err != nil {
				return fluent.WithStack(err)
			}
		case rule.DeferredMerge:
			deferrable, ok := target.(interface{ DeferredMerge([]any, int64) })
			if !ok {
				return fluent.Errorf("node: collection %q does not support deferred_merge: %w", r.Target, ErrDeferredMergeUnsupported)
			}
			deferrable.DeferredMerge(row.Value, n.logicalTime)
			if err := n.lineage.InsertTuple(ctx, r.Target, n.logicalTime, physicalTime, row.Value); err != nil {
				return fluent.WithStack(err)
			}
		case rule.DeferredDelete:
			deferrable, ok := target.(collection.Deferrable)
			if !ok {
				return fluent.Errorf("node: collection %q does not support deferred_delete: %w", r.Target, ErrDeferredDeleteUnsupported)
			}
			deferrable.DeferredDelete(row.Value, n.logicalTime)
			if err := n.lineage.DeleteTuple(ctx, r.Target, n.logicalTime, physicalTime, row.Value); err != nil {
				return fluent.WithStack(err)
			}
		}
		if err := n.recordDerivedLineage(ctx, r, row, physicalTime); err != nil {
			return err
		}
	}
	return nil
}

// DeliverNetworked injects value, received from srcNodeID's tick srcTime,
// into the named Channel collection for exactly the current tick, and
// records the cross-node lineage edge (spec §4.5's add_networked_lineage)
// from the sender's tuple to its local arrival.
func (n *Node) DeliverNetworked(ctx context.Context, channelName string, srcNodeID, srcTime int64, value []any) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch, ok := n.channels[channelName]
	if !ok {
		return fluent.Errorf("node: %q is not a declared channel: %w", channelName, ErrUnknownCollection)
	}
	ch.Deliver(value, n.logicalTime)
	return n.lineage.AddNetworkedLineage(ctx, srcNodeID, srcTime, channelName, derivedHash(value), n.logicalTime)
}

func (n *Node) recordDerivedLineage(ctx context.Context, r rule.Rule, row ra.Row, physicalTime time.Time) error {
	h := derivedHash(row.Value)
	derived := lineagedb.TupleID{Collection: r.Target, Hash: h, LogicalTime: n.logicalTime}
	for dep := range row.Prov {
		depID := lineagedb.TupleID{Collection: dep.CollectionName, Hash: dep.Hash, LogicalTime: dep.LogicalTime}
		if err := n.lineage.AddDerivedLineage(ctx, depID, r.Number, r.Op != rule.DeferredDelete, physicalTime, derived); err != nil {
			return fluent.WithStack(err)
		}
	}
	return nil
}
