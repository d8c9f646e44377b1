package lineagedb

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	expirable "github.com/go-pkgz/expirable-cache/v3"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zond/sqly"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/fluentgo/fluent"
	"github.com/fluentgo/fluent/hash"
)

// networkEdgeDedupeWindow is how long a given networked-lineage edge is
// suppressed after first being recorded, absorbing the duplicate edges a
// retried channel send produces.
const networkEdgeDedupeWindow = 30 * time.Second

// dedupeCacheSize bounds the recently-seen-collection/rule LRU used to
// skip repeated AddCollection/AddRule calls for the same key within one
// SQLClient's lifetime (the cache is in memory and starts empty on Open).
const dedupeCacheSize = 1024

type job func(ctx context.Context) error

// SQLClient is the sqlx/sqly-backed, disk-persistent Client
// implementation, grounded on storage.New/storage.Storage's sqly wiring.
// Writes are queued to a single background worker so the engine's tick
// loop never blocks on disk I/O (spec §4.5's "permitted to be
// asynchronous").
type SQLClient struct {
	sql     *sqly.DB
	nodeID  int64
	node    string
	address string

	seen    *lru.Cache[string, struct{}]
	netSeen expirable.Cache[string, struct{}]

	queue  chan job
	group  *errgroup.Group
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// Open creates (or reuses) a sqlite-backed lineage store at path and
// registers a node named name/address. Mirrors storage.New's
// sqly.Open + CreateTableIfNotExists setup.
func Open(ctx context.Context, path, name, address string, queueDepth int) (*SQLClient, error) {
	db, err := sqly.Open("sqlite", path)
	if err != nil {
		return nil, fluent.WithStack(err)
	}
	for _, proto := range schemaPrototypes {
		if err := db.CreateTableIfNotExists(ctx, proto); err != nil {
			return nil, fluent.WithStack(err)
		}
	}
	seen, err := lru.New[string, struct{}](dedupeCacheSize)
	if err != nil {
		return nil, fluent.WithStack(err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	group, runCtx := errgroup.WithContext(runCtx)

	c := &SQLClient{
		sql:     db,
		node:    name,
		address: address,
		seen:    seen,
		netSeen: expirable.NewCache[string, struct{}](),
		queue:   make(chan job, queueDepth),
		group:   group,
		cancel:  cancel,
	}
	group.Go(func() error { return c.drain(runCtx) })
	return c, nil
}

func (c *SQLClient) enqueue(j job) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return fluent.Errorf("lineagedb: client is closed")
	}
	select {
	case c.queue <- j:
		return nil
	default:
		return fluent.Errorf("lineagedb: lineage queue is full, engine cannot continue without lineage")
	}
}

// drain is the single consumer goroutine: transient store errors are
// logged and retried a bounded number of times; an unrecoverable error
// aborts the process, since the lineage invariant is load-bearing
// (spec §7).
func (c *SQLClient) drain(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case j, ok := <-c.queue:
			if !ok {
				return nil
			}
			c.runWithRetry(ctx, j)
		}
	}
}

func (c *SQLClient) runWithRetry(ctx context.Context, j job) {
	const maxAttempts = 5
	backoff := 50 * time.Millisecond
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := j(ctx)
		if err == nil {
			return
		}
		log.Printf("lineagedb: write attempt %d/%d failed: %v", attempt, maxAttempts, err)
		time.Sleep(backoff)
		backoff *= 2
	}
	log.Fatalf("lineagedb: exhausted %d retries, aborting: lineage invariant cannot be maintained", maxAttempts)
}

func (c *SQLClient) Init(ctx context.Context) error {
	return c.sql.Write(ctx, func(tx *sqly.Tx) error {
		row := &NodeRow{Name: c.node, Address: c.address}
		if err := tx.Upsert(ctx, row, true); err != nil {
			return fluent.WithStack(err)
		}
		c.nodeID = row.ID
		return nil
	})
}

func (c *SQLClient) AddCollection(ctx context.Context, name, collectionType string, columnNames, columnTypes []string) error {
	if name == ReservedCollectionName {
		return fluent.Errorf("lineagedb: %q is a reserved collection name", name)
	}
	key := fmt.Sprintf("collection:%d:%s", c.nodeID, name)
	if _, ok := c.seen.Get(key); ok {
		return nil
	}
	c.seen.Add(key, struct{}{})
	return c.enqueue(func(ctx context.Context) error {
		if err := c.sql.Write(ctx, func(tx *sqly.Tx) error {
			return tx.Upsert(ctx, &CollectionRow{
				NodeID:         c.nodeID,
				CollectionName: name,
				CollectionType: collectionType,
				ColumnNames:    strings.Join(columnNames, ","),
				LineageType:    strings.Join(columnTypes, ","),
			}, true)
		}); err != nil {
			return fluent.WithStack(err)
		}
		return c.ensureTupleTable(ctx, name, columnNames)
	})
}

func (c *SQLClient) AddRule(ctx context.Context, ruleNumber int, isBootstrap bool, ruleDebug string) error {
	key := fmt.Sprintf("rule:%d:%d", c.nodeID, ruleNumber)
	if _, ok := c.seen.Get(key); ok {
		return nil
	}
	c.seen.Add(key, struct{}{})
	return c.enqueue(func(ctx context.Context) error {
		return fluent.WithStack(c.sql.Write(ctx, func(tx *sqly.Tx) error {
			return tx.Upsert(ctx, &RuleRow{
				NodeID:      c.nodeID,
				RuleNumber:  ruleNumber,
				IsBootstrap: isBootstrap,
				Rule:        ruleDebug,
			}, true)
		}))
	})
}

func (c *SQLClient) tupleTable(collection string) string {
	return fmt.Sprintf("%s_%s", c.node, collection)
}

func (c *SQLClient) lineageTable() string {
	return fmt.Sprintf("%s_lineage", c.node)
}

func (c *SQLClient) ensureTupleTable(ctx context.Context, collection string, columnNames []string) error {
	cols := make([]string, len(columnNames))
	for i, name := range columnNames {
		cols[i] = fmt.Sprintf("%s TEXT", sqlIdent(name))
	}
	stmt := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			hash INTEGER NOT NULL,
			time_inserted INTEGER NOT NULL,
			time_deleted INTEGER,
			physical_time_inserted TEXT NOT NULL,
			physical_time_deleted TEXT,
			%s
			PRIMARY KEY (hash, time_inserted)
		)`,
		sqlIdent(c.tupleTable(collection)),
		joinColsWithTrailingComma(cols),
	)
	_, err := c.sql.ExecContext(ctx, stmt)
	return fluent.WithStack(err)
}

func joinColsWithTrailingComma(cols []string) string {
	if len(cols) == 0 {
		return ""
	}
	return strings.Join(cols, ",\n\t\t\t") + ","
}

func sqlIdent(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
}

func (c *SQLClient) ensureLineageTable(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		dep_node_id INTEGER,
		dep_collection_name TEXT,
		dep_tuple_hash INTEGER,
		dep_time INTEGER,
		rule_number INTEGER,
		inserted BOOLEAN,
		physical_time TEXT,
		collection_name TEXT,
		tuple_hash INTEGER,
		time INTEGER
	)`, sqlIdent(c.lineageTable()))
	_, err := c.sql.ExecContext(ctx, stmt)
	return fluent.WithStack(err)
}

func (c *SQLClient) InsertTuple(ctx context.Context, collection string, logicalTime int64, physicalTime time.Time, tuple []any) error {
	h := hash.Tuple(tuple...)
	return c.enqueue(func(ctx context.Context) error {
		stmt := fmt.Sprintf(
			`INSERT OR IGNORE INTO %s (hash, time_inserted, physical_time_inserted) VALUES (?, ?, ?)`,
			sqlIdent(c.tupleTable(collection)),
		)
		_, err := c.sql.ExecContext(ctx, stmt, int64(h), logicalTime, physicalTime.UTC().Format(time.RFC3339Nano))
		return fluent.WithStack(err)
	})
}

func (c *SQLClient) DeleteTuple(ctx context.Context, collection string, logicalTime int64, physicalTime time.Time, tuple []any) error {
	h := hash.Tuple(tuple...)
	return c.enqueue(func(ctx context.Context) error {
		stmt := fmt.Sprintf(
			`UPDATE %s SET time_deleted = ?, physical_time_deleted = ? WHERE hash = ? AND time_inserted <= ? AND time_deleted IS NULL`,
			sqlIdent(c.tupleTable(collection)),
		)
		_, err := c.sql.ExecContext(ctx, stmt, logicalTime, physicalTime.UTC().Format(time.RFC3339Nano), int64(h), logicalTime)
		return fluent.WithStack(err)
	})
}

func (c *SQLClient) AddDerivedLineage(ctx context.Context, dep TupleID, ruleNumber int, inserted bool, physicalTime time.Time, derived TupleID) error {
	return c.enqueue(func(ctx context.Context) error {
		if err := c.ensureLineageTable(ctx); err != nil {
			return err
		}
		stmt := fmt.Sprintf(
			`INSERT INTO %s (dep_node_id, dep_collection_name, dep_tuple_hash, dep_time, rule_number, inserted, physical_time, collection_name, tuple_hash, time)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sqlIdent(c.lineageTable()),
		)
		_, err := c.sql.ExecContext(ctx, stmt,
			c.nodeID, dep.Collection, int64(dep.Hash), dep.LogicalTime,
			ruleNumber, inserted, physicalTime.UTC().Format(time.RFC3339Nano),
			derived.Collection, int64(derived.Hash), derived.LogicalTime,
		)
		return fluent.WithStack(err)
	})
}

func (c *SQLClient) AddNetworkedLineage(ctx context.Context, srcNodeID int64, srcTime int64, collection string, tupleHash hash.Hash, atTime int64) error {
	key := fmt.Sprintf("net:%d:%d:%s:%d:%d", srcNodeID, srcTime, collection, uint64(tupleHash), atTime)
	if _, ok := c.netSeen.Get(key); ok {
		return nil
	}
	c.netSeen.Set(key, struct{}{}, networkEdgeDedupeWindow)
	return c.enqueue(func(ctx context.Context) error {
		if err := c.ensureLineageTable(ctx); err != nil {
			return err
		}
		stmt := fmt.Sprintf(
			`INSERT INTO %s (dep_node_id, dep_collection_name, dep_tuple_hash, dep_time, collection_name, tuple_hash, time)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sqlIdent(c.lineageTable()),
		)
		_, err := c.sql.ExecContext(ctx, stmt, srcNodeID, collection, int64(tupleHash), srcTime, collection, int64(tupleHash), atTime)
		return fluent.WithStack(err)
	})
}

// Close drains the queue, stops the worker, and logs a short summary via
// humanize, mirroring the teacher's audit-log closing discipline.
func (c *SQLClient) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.queue)
	err := c.group.Wait()
	c.cancel()
	log.Printf("lineagedb: closed with %s writes left in the queue", humanize.Comma(int64(len(c.queue))))
	return fluent.WithStack(err)
}
