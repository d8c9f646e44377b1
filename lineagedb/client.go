// Package lineagedb implements the lineage client of spec §4.5: every
// engine event (collection/rule registration, tuple insert/delete, and
// the two lineage-edge kinds) passes through a Client on its way to the
// fixed schema of §6.
package lineagedb

import (
	"context"
	"time"

	"github.com/fluentgo/fluent/hash"
)

// ReservedCollectionName is rejected by AddCollection: "lineage" names the
// client's own bookkeeping table family, per spec §6.
const ReservedCollectionName = "lineage"

// TupleID identifies one base or derived row for lineage purposes:
// (collection, tuple hash, logical time).
type TupleID struct {
	Collection string
	Hash       hash.Hash
	LogicalTime int64
}

// Client observes every engine event, per spec §4.5. Implementations may
// be asynchronous (operations enqueue work for a worker to drain) but
// enqueue itself must never block, and must preserve per-collection
// ordering of insert/delete events.
type Client interface {
	// Init is idempotent; it writes this node's Nodes row.
	Init(ctx context.Context) error

	// AddCollection registers a collection once, during setup.
	AddCollection(ctx context.Context, name, collectionType string, columnNames, columnTypes []string) error

	// AddRule registers a rule once, during setup.
	AddRule(ctx context.Context, ruleNumber int, isBootstrap bool, ruleDebug string) error

	// InsertTuple records one merge.
	InsertTuple(ctx context.Context, collection string, logicalTime int64, physicalTime time.Time, tuple []any) error

	// DeleteTuple records one tick-applied deferred-delete.
	DeleteTuple(ctx context.Context, collection string, logicalTime int64, physicalTime time.Time, tuple []any) error

	// AddDerivedLineage records one (dependency, derived) edge produced by
	// a rule's evaluation.
	AddDerivedLineage(ctx context.Context, dep TupleID, ruleNumber int, inserted bool, physicalTime time.Time, derived TupleID) error

	// AddNetworkedLineage records the edge a channel delivery creates
	// between a sending node's tuple and the receiving node's inbound row.
	AddNetworkedLineage(ctx context.Context, srcNodeID int64, srcTime int64, collection string, tupleHash hash.Hash, atTime int64) error

	// Close drains any pending asynchronous work and releases resources.
	Close() error
}
