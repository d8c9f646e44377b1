// Package hash implements stable, process-independent hashing of scalar
// values and fixed tuples (spec §4.1). Hashes are used as the primary key
// of a CollectionTupleIds entry and as the hash component of a
// LocalTupleId, so they must be identical across runs and across
// processes for equal values.
package hash

import (
	"hash/fnv"
	"math"
)

// Hash is the 64-bit stable hash type used throughout the engine.
type Hash uint64

// combine folds h2 into h1 using the Boost-style
// rotate-xor-multiply mixer: acc ^= (h + 0x9e3779b9 + (acc<<6) + (acc>>2)).
// This is the same combiner documented in the original fluent project's
// common/hash_util.h, applied here field-by-field to build tuple hashes.
func combine(acc Hash, h Hash) Hash {
	return acc ^ (h + 0x9e3779b9 + (acc << 6) + (acc >> 2))
}

// Combine folds a sequence of field hashes into a single tuple hash. Order
// matters: Combine(a, b) != Combine(b, a) in general, matching positional
// tuple semantics.
func Combine(hs ...Hash) Hash {
	var acc Hash
	for _, h := range hs {
		acc = combine(acc, h)
	}
	return acc
}

func bytesHash(b []byte) Hash {
	h := fnv.New64a()
	_, _ = h.Write(b)
	return Hash(h.Sum64())
}

// String hashes a string scalar.
func String(s string) Hash {
	return bytesHash([]byte(s))
}

// Bytes hashes a byte-slice scalar.
func Bytes(b []byte) Hash {
	return bytesHash(b)
}

// Bool hashes a boolean scalar.
func Bool(b bool) Hash {
	if b {
		return 1
	}
	return 0
}

// Int hashes any signed integer scalar.
func Int(i int64) Hash {
	return Hash(uint64(i))
}

// Uint hashes any unsigned integer scalar.
func Uint(u uint64) Hash {
	return Hash(u)
}

// Float hashes a float64 scalar by its IEEE-754 bit pattern, per spec §4.1:
// floats are hashed by bit pattern, and NaN keys are explicitly undefined
// behavior (NaN tuples may compare unequal even with equal bit patterns).
func Float(f float64) Hash {
	return Hash(math.Float64bits(f))
}

// Scalar hashes any of the engine's supported scalar kinds. Unsupported
// types are a configuration error the caller should have rejected at
// setup time (Project/Scan column typing); Scalar panics rather than
// silently returning a wrong hash, since a mis-hashed key would corrupt
// CollectionTupleIds silently.
func Scalar(v any) Hash {
	switch x := v.(type) {
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Uint(uint64(x))
	case uint8:
		return Uint(uint64(x))
	case uint16:
		return Uint(uint64(x))
	case uint32:
		return Uint(uint64(x))
	case uint64:
		return Uint(x)
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case string:
		return String(x)
	case []byte:
		return Bytes(x)
	default:
		panic("hash.Scalar: unsupported scalar type")
	}
}

// Tuple hashes a fixed-arity heterogeneous row by hashing each field and
// combining them in positional order.
func Tuple(fields ...any) Hash {
	hs := make([]Hash, len(fields))
	for i, f := range fields {
		hs[i] = Scalar(f)
	}
	return Combine(hs...)
}
