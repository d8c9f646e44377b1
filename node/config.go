// Package node wires collections, rules, and a lineage client together
// into the runnable unit of spec §2/§6: a single-threaded, tick-driven
// dataflow node with an outer event loop polling its channel sockets,
// stdin, and periodic timers (spec §5).
package node

import (
	"io"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fluentgo/fluent/lineagedb"
)

// Config is a node's identity and ambient wiring. Name and Address
// default to a generated uuid if left empty; Lineage defaults to an
// in-memory MockClient so a node is runnable without a configured store.
type Config struct {
	Name    string
	Address string
	Lineage lineagedb.Client
	LogOut  io.Writer
}

// Option mutates a Config under construction.
type Option func(*Config)

// WithName sets the node's registered name (the Nodes.name column).
func WithName(name string) Option {
	return func(c *Config) { c.Name = name }
}

// WithAddress sets the node's registered address (the Nodes.address
// column; also what a sender targets with Channel.Merge).
func WithAddress(address string) Option {
	return func(c *Config) { c.Address = address }
}

// WithLineage wires an explicit lineage client, overriding the default
// in-memory MockClient.
func WithLineage(client lineagedb.Client) Option {
	return func(c *Config) { c.Lineage = client }
}

// WithLogOutput sets Config.LogOut to w. Nothing in the node reads
// LogOut: diagnostics such as channel send failures go through the
// standard log package's default output.
func WithLogOutput(w io.Writer) Option {
	return func(c *Config) { c.LogOut = w }
}

// WithRotatingLogFile sets Config.LogOut to a lumberjack-rotated file,
// mirroring the teacher's AuditLogger setup. As with WithLogOutput, the
// node does not read LogOut, so diagnostics are not redirected to it.
func WithRotatingLogFile(path string, maxSizeMB, maxBackups, maxAgeDays int) Option {
	return func(c *Config) {
		c.LogOut = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
	}
}

func newConfig(opts ...Option) Config {
	cfg := Config{
		Name:    uuid.NewString(),
		Address: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Lineage == nil {
		cfg.Lineage = lineagedb.NewMockClient()
	}
	return cfg
}
