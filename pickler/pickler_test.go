package pickler_test

import (
	"reflect"
	"testing"

	"github.com/fluentgo/fluent/pickler"
)

func roundTripFields(t *testing.T, p pickler.Pickler, fields []any) {
	t.Helper()
	b, err := p.Dump(fields)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	var got []any
	if err := p.Load(b, &got); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(fields, got) {
		t.Fatalf("round trip mismatch: got %#v, want %#v", got, fields)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	roundTripFields(t, pickler.JSON{}, []any{"hello", float64(3.5), true})
}

func TestBencRoundTripScalars(t *testing.T) {
	roundTripFields(t, pickler.Benc{}, []any{
		true, int64(-7), uint64(42), float64(1.25), "hi", []byte{1, 2, 3},
	})
}

func TestBencRoundTripEmptyTuple(t *testing.T) {
	roundTripFields(t, pickler.Benc{}, []any{})
}
