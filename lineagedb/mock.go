package lineagedb

import (
	"context"
	"sync"
	"time"

	"github.com/fluentgo/fluent"
	"github.com/fluentgo/fluent/hash"
)

// InsertEvent is one recorded InsertTuple/DeleteTuple call.
type InsertEvent struct {
	Collection   string
	LogicalTime  int64
	PhysicalTime time.Time
	Tuple        []any
	Deleted      bool
}

// DerivedLineageEvent is one recorded AddDerivedLineage call.
type DerivedLineageEvent struct {
	Dep          TupleID
	RuleNumber   int
	Inserted     bool
	PhysicalTime time.Time
	Derived      TupleID
}

// MockClient is an in-memory Client for tests: every call is recorded
// synchronously, in order, under a mutex. Its only error is AddCollection
// rejecting the reserved collection name; every other call succeeds,
// matching the "enqueue is non-blocking" contract trivially.
type MockClient struct {
	mu sync.Mutex

	Inited      bool
	Collections []string
	Rules       []string
	Inserts     []InsertEvent
	Derived     []DerivedLineageEvent
	Networked   []NetworkedLineageEvent
}

// NetworkedLineageEvent is one recorded AddNetworkedLineage call.
type NetworkedLineageEvent struct {
	SrcNodeID  int64
	SrcTime    int64
	Collection string
	Hash       hash.Hash
	Time       int64
}

// NewMockClient returns a ready-to-use MockClient.
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inited = true
	return nil
}

func (m *MockClient) AddCollection(ctx context.Context, name, collectionType string, columnNames, columnTypes []string) error {
	if name == ReservedCollectionName {
		return fluent.Errorf("lineagedb: %q is a reserved collection name", name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Collections = append(m.Collections, name)
	return nil
}

func (m *MockClient) AddRule(ctx context.Context, ruleNumber int, isBootstrap bool, ruleDebug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rules = append(m.Rules, ruleDebug)
	return nil
}

func (m *MockClient) InsertTuple(ctx context.Context, collection string, logicalTime int64, physicalTime time.Time, tuple []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inserts = append(m.Inserts, InsertEvent{Collection: collection, LogicalTime: logicalTime, PhysicalTime: physicalTime, Tuple: tuple})
	return nil
}

func (m *MockClient) DeleteTuple(ctx context.Context, collection string, logicalTime int64, physicalTime time.Time, tuple []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inserts = append(m.Inserts, InsertEvent{Collection: collection, LogicalTime: logicalTime, PhysicalTime: physicalTime, Tuple: tuple, Deleted: true})
	return nil
}

func (m *MockClient) AddDerivedLineage(ctx context.Context, dep TupleID, ruleNumber int, inserted bool, physicalTime time.Time, derived TupleID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Derived = append(m.Derived, DerivedLineageEvent{Dep: dep, RuleNumber: ruleNumber, Inserted: inserted, PhysicalTime: physicalTime, Derived: derived})
	return nil
}

func (m *MockClient) AddNetworkedLineage(ctx context.Context, srcNodeID int64, srcTime int64, collection string, tupleHash hash.Hash, atTime int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Networked = append(m.Networked, NetworkedLineageEvent{SrcNodeID: srcNodeID, SrcTime: srcTime, Collection: collection, Hash: tupleHash, Time: atTime})
	return nil
}

func (m *MockClient) Close() error { return nil }
