package node

import (
	"context"
	"io"
	"time"

	"github.com/fluentgo/fluent"
	"github.com/fluentgo/fluent/collection"
	"github.com/fluentgo/fluent/lineagedb"
	"github.com/fluentgo/fluent/pickler"
	"github.com/fluentgo/fluent/ra"
	"github.com/fluentgo/fluent/rule"
)

// declaration records one collection's schema for add_collection.
type declaration struct {
	name           string
	collectionType string
	columnNames    []string
	columnTypes    []string
}

// Builder is the fluent collection/rule declaration API of spec §6: a
// builder that accepts a collection kind, a name, a typed column list, and
// a matching-arity column-name list, plus a rule declaration surface
// built on the §4.4 combinators.
type Builder struct {
	node         *Node
	declarations []declaration
	err          error
}

// NewBuilder starts a node declaration under cfg.
func NewBuilder(opts ...Option) *Builder {
	cfg := newConfig(opts...)
	return &Builder{
		node: &Node{
			name:        cfg.Name,
			address:     cfg.Address,
			lineage:     cfg.Lineage,
			collections: map[string]collection.Collection{},
			columns:     map[string][]string{},
			stdins:      map[string]*collection.Stdin{},
			periodics:   map[string]*collection.Periodic{},
			channels:    map[string]*collection.Channel{},
		},
	}
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b *Builder) checkSchema(name string, columnNames, columnTypes []string) bool {
	if name == lineagedb.ReservedCollectionName {
		b.fail(fluent.Errorf("node: %q is a reserved collection name: %w", name, ErrReservedName))
		return false
	}
	if _, exists := b.node.collections[name]; exists {
		b.fail(fluent.Errorf("node: collection %q already declared: %w", name, ErrCollectionAlreadyDeclared))
		return false
	}
	if len(columnNames) != len(columnTypes) {
		b.fail(fluent.Errorf("node: collection %q has %d column names but %d column types: %w", name, len(columnNames), len(columnTypes), ErrSchemaArityMismatch))
		return false
	}
	return true
}

func (b *Builder) register(name, kind string, columnNames, columnTypes []string, c collection.Collection) {
	b.node.collections[name] = c
	b.node.columns[name] = columnNames
	b.node.order = append(b.node.order, name)
	b.declarations = append(b.declarations, declaration{name: name, collectionType: kind, columnNames: columnNames, columnTypes: columnTypes})
}

// Table declares a persistent collection (spec §4.2).
func (b *Builder) Table(name string, columnNames, columnTypes []string) *Builder {
	if b.err != nil || !b.checkSchema(name, columnNames, columnTypes) {
		return b
	}
	b.register(name, "table", columnNames, columnTypes, collection.NewTable(name))
	return b
}

// Scratch declares a collection that clears every tick.
func (b *Builder) Scratch(name string, columnNames, columnTypes []string) *Builder {
	if b.err != nil || !b.checkSchema(name, columnNames, columnTypes) {
		return b
	}
	b.register(name, "scratch", columnNames, columnTypes, collection.NewScratch(name))
	return b
}

// Channel declares an outbound/inbound network collection. sender may be
// nil for a receive-only channel.
func (b *Builder) Channel(name string, columnNames, columnTypes []string, pickle pickler.Pickler, sender collection.Sender) *Builder {
	if b.err != nil || !b.checkSchema(name, columnNames, columnTypes) {
		return b
	}
	ch := collection.NewChannel(name, pickle, sender)
	b.node.channels[name] = ch
	b.register(name, "channel", columnNames, columnTypes, ch)
	return b
}

// Stdin declares a line-delimited text input collection.
func (b *Builder) Stdin(name string, r io.Reader, columnNames, columnTypes []string) *Builder {
	if b.err != nil || !b.checkSchema(name, columnNames, columnTypes) {
		return b
	}
	in := collection.NewStdin(name, r)
	b.node.stdins[name] = in
	b.register(name, "stdin", columnNames, columnTypes, in)
	return b
}

// Stdout declares a line-delimited text output collection.
func (b *Builder) Stdout(name string, w io.Writer) *Builder {
	if b.err != nil || !b.checkSchema(name, []string{"line"}, []string{"string"}) {
		return b
	}
	b.register(name, "stdout", []string{"line"}, []string{"string"}, collection.NewStdout(name, w))
	return b
}

// Periodic declares a timer collection that fires at most once per period.
func (b *Builder) Periodic(name string, period time.Duration) *Builder {
	if b.err != nil || !b.checkSchema(name, []string{"id", "timestamp"}, []string{"int64", "int64"}) {
		return b
	}
	p := collection.NewPeriodic(name, period)
	b.node.periodics[name] = p
	b.register(name, "periodic", []string{"id", "timestamp"}, []string{"int64", "int64"}, p)
	return b
}

// Rule declares a (target, op, source) triple. source receives the node
// under construction so it can close over Node.Collection lookups; it is
// invoked fresh every tick, never memoized, since collections mutate
// between ticks.
func (b *Builder) Rule(target string, op rule.Op, bootstrap bool, debug string, source func(*Node) (ra.Operator, error)) *Builder {
	if b.err != nil {
		return b
	}
	number := len(b.node.rules)
	b.node.rules = append(b.node.rules, rule.New(number, target, op, bootstrap, debug, func() (ra.Operator, error) {
		return source(b.node)
	}))
	return b
}

// Build finalizes the node: registers its identity and schema with the
// lineage client, then returns the runnable Node.
func (b *Builder) Build(ctx context.Context) (*Node, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.node.lineage.Init(ctx); err != nil {
		return nil, fluent.WithStack(err)
	}
	for _, d := range b.declarations {
		if err := b.node.lineage.AddCollection(ctx, d.name, d.collectionType, d.columnNames, d.columnTypes); err != nil {
			return nil, fluent.WithStack(err)
		}
	}
	for _, r := range b.node.rules {
		if err := b.node.lineage.AddRule(ctx, r.Number, r.Bootstrap, r.Debug); err != nil {
			return nil, fluent.WithStack(err)
		}
	}
	return b.node, nil
}
