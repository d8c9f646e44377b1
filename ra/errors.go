package ra

import "errors"

// Sentinel errors for the configuration-error class of spec §8: all of
// these are setup-time failures (bad arity, bad column reference), never
// raised once an operator tree starts pulling rows.
var (
	ErrKeyArityMismatch      = errors.New("ErrKeyArityMismatch")
	ErrColumnIndexOutOfRange = errors.New("ErrColumnIndexOutOfRange")
	ErrNonNumericColumn      = errors.New("ErrNonNumericColumn")
)
