package lineagedb_test

import (
	"context"
	"testing"
	"time"

	"github.com/fluentgo/fluent/hash"
	"github.com/fluentgo/fluent/lineagedb"
)

func TestMockClientRecordsEvents(t *testing.T) {
	m := lineagedb.NewMockClient()
	ctx := context.Background()

	if err := m.Init(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Inited {
		t.Fatal("expected Inited to be true")
	}

	if err := m.AddCollection(ctx, "t", "table", []string{"a", "b"}, []string{"char", "char"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Collections) != 1 || m.Collections[0] != "t" {
		t.Fatalf("expected collection 't' recorded, got %#v", m.Collections)
	}

	if err := m.InsertTuple(ctx, "t", 0, time.Now(), []any{"a", "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Inserts) != 1 || m.Inserts[0].Deleted {
		t.Fatalf("expected one non-deleted insert, got %#v", m.Inserts)
	}

	if err := m.DeleteTuple(ctx, "t", 2, time.Now(), []any{"b", "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Inserts) != 2 || !m.Inserts[1].Deleted {
		t.Fatal("expected second event marked deleted")
	}

	dep := lineagedb.TupleID{Collection: "t", Hash: hash.Tuple("a", "a"), LogicalTime: 0}
	derived := lineagedb.TupleID{Collection: "u", Hash: hash.Tuple("a"), LogicalTime: 1}
	if err := m.AddDerivedLineage(ctx, dep, 0, true, time.Now(), derived); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Derived) != 1 {
		t.Fatal("expected one derived lineage edge recorded")
	}

	if err := m.AddNetworkedLineage(ctx, 1, 0, "t", hash.Tuple("a"), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Networked) != 1 {
		t.Fatal("expected one networked lineage edge recorded")
	}
}

func TestMockClientRejectsReservedCollectionName(t *testing.T) {
	m := lineagedb.NewMockClient()
	if err := m.AddCollection(context.Background(), lineagedb.ReservedCollectionName, "table", nil, nil); err == nil {
		t.Fatal("expected an error for the reserved collection name")
	}
}
