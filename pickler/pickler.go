// Package pickler implements the wire-format capability of spec §6: a
// Pickler is a serializer/deserializer pair whose round trip
// (Load(Dump(x)) == x) must be exact for every supported field type.
// Channels are parameterized by a Pickler; the engine does not mandate a
// specific wire format.
package pickler

// Pickler serializes and deserializes channel payloads.
type Pickler interface {
	// Dump serializes v.
	Dump(v any) ([]byte, error)
	// Load deserializes b into the value pointed to by dst.
	Load(b []byte, dst any) error
}
