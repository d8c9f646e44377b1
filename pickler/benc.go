package pickler

import (
	"fmt"

	bstd "github.com/deneonet/benc/std"

	"github.com/fluentgo/fluent"
)

// fieldTag identifies the scalar kind of an encoded tuple field, so Benc
// can decode a heterogeneous []any without external schema information.
// This mirrors the per-field tag byte the teacher's bencgen-generated
// Marshal functions emit (see structs/schema.go's MarshalTag calls), hand
// written here instead of generated since our payloads are dynamically
// shaped tuples rather than a fixed schema struct.
type fieldTag byte

const (
	tagBool fieldTag = iota
	tagInt64
	tagUint64
	tagFloat64
	tagString
	tagBytes
)

// Benc is a compact binary Pickler built directly on deneonet/benc's `std`
// primitives (bstd.Size*/Marshal*/Unmarshal* triplets), the same package
// the teacher's generated structs/schema.go calls into (there as
// bstd.SizeFloat32/MarshalFloat32/...). Benc supports bool, int64 (an int
// field is encoded, and decoded, as int64), uint64, float64, string and
// []byte; any other kind, including the narrower integer kinds and float32
// that hash.Scalar accepts, is an error at Dump time rather than silently
// truncated.
type Benc struct{}

// Dump encodes v, which must be []any (a tuple's field values) or a single
// scalar.
func (Benc) Dump(v any) ([]byte, error) {
	fields, single := asFields(v)
	size := bstd.SizeUint64() // field count prefix
	encoded := make([]encodedField, len(fields))
	for i, f := range fields {
		ef, err := encodeField(f)
		if err != nil {
			return nil, fluent.WithStack(err)
		}
		encoded[i] = ef
		size += 1 + ef.size // tag byte + value size
	}
	buf := make([]byte, size)
	n := bstd.MarshalUint64(0, buf, uint64(len(fields)))
	for _, ef := range encoded {
		buf[n] = byte(ef.tag)
		n++
		n = ef.marshal(n, buf)
	}
	_ = single
	return buf, nil
}

// Load decodes b into dst, which must be a *[]any, or a *any when b holds
// a single field.
func (Benc) Load(b []byte, dst any) error {
	n, count, err := bstd.UnmarshalUint64(0, b)
	if err != nil {
		return fluent.WithStack(err)
	}
	fields := make([]any, count)
	for i := uint64(0); i < count; i++ {
		tag := fieldTag(b[n])
		n++
		var (
			v   any
			err error
		)
		n, v, err = decodeField(tag, n, b)
		if err != nil {
			return fluent.WithStack(err)
		}
		fields[i] = v
	}
	return assignFields(fields, dst)
}

type encodedField struct {
	tag     fieldTag
	size    int
	marshal func(n int, b []byte) int
}

func encodeField(v any) (encodedField, error) {
	switch x := v.(type) {
	case bool:
		return encodedField{tag: tagBool, size: bstd.SizeBool(), marshal: func(n int, b []byte) int {
			return bstd.MarshalBool(n, b, x)
		}}, nil
	case int64:
		return encodedField{tag: tagInt64, size: bstd.SizeInt64(), marshal: func(n int, b []byte) int {
			return bstd.MarshalInt64(n, b, x)
		}}, nil
	case int:
		return encodeField(int64(x))
	case uint64:
		return encodedField{tag: tagUint64, size: bstd.SizeUint64(), marshal: func(n int, b []byte) int {
			return bstd.MarshalUint64(n, b, x)
		}}, nil
	case float64:
		return encodedField{tag: tagFloat64, size: bstd.SizeFloat64(), marshal: func(n int, b []byte) int {
			return bstd.MarshalFloat64(n, b, x)
		}}, nil
	case string:
		return encodedField{tag: tagString, size: bstd.SizeString(x), marshal: func(n int, b []byte) int {
			return bstd.MarshalString(n, b, x)
		}}, nil
	case []byte:
		return encodedField{tag: tagBytes, size: bstd.SizeBytes(x), marshal: func(n int, b []byte) int {
			return bstd.MarshalBytes(n, b, x)
		}}, nil
	default:
		return encodedField{}, fmt.Errorf("benc pickler: unsupported field type %T", v)
	}
}

func decodeField(tag fieldTag, n int, b []byte) (int, any, error) {
	switch tag {
	case tagBool:
		nn, v, err := bstd.UnmarshalBool(n, b)
		return nn, v, err
	case tagInt64:
		nn, v, err := bstd.UnmarshalInt64(n, b)
		return nn, v, err
	case tagUint64:
		nn, v, err := bstd.UnmarshalUint64(n, b)
		return nn, v, err
	case tagFloat64:
		nn, v, err := bstd.UnmarshalFloat64(n, b)
		return nn, v, err
	case tagString:
		nn, v, err := bstd.UnmarshalString(n, b)
		return nn, v, err
	case tagBytes:
		nn, v, err := bstd.UnmarshalBytes(n, b)
		return nn, v, err
	default:
		return n, nil, fmt.Errorf("benc pickler: unknown field tag %d", tag)
	}
}

func asFields(v any) ([]any, bool) {
	if fields, ok := v.([]any); ok {
		return fields, false
	}
	return []any{v}, true
}

func assignFields(fields []any, dst any) error {
	switch d := dst.(type) {
	case *[]any:
		*d = fields
		return nil
	case *any:
		if len(fields) != 1 {
			return fmt.Errorf("benc pickler: expected a single scalar, got %d fields", len(fields))
		}
		*d = fields[0]
		return nil
	default:
		return fmt.Errorf("benc pickler: unsupported destination type %T", dst)
	}
}
