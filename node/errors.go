package node

import "errors"

// Sentinel errors for the node-level configuration-error class of spec §8,
// matched with errors.Is the same way storage/cabinet's ErrNotFound and
// ErrDuplication are matched in the teacher.
var (
	ErrReservedName              = errors.New("ErrReservedName")
	ErrCollectionAlreadyDeclared = errors.New("ErrCollectionAlreadyDeclared")
	ErrSchemaArityMismatch       = errors.New("ErrSchemaArityMismatch")
	ErrUnknownCollection         = errors.New("ErrUnknownCollection")
	ErrNotMutable                = errors.New("ErrNotMutable")
	ErrDeferredMergeUnsupported  = errors.New("ErrDeferredMergeUnsupported")
	ErrDeferredDeleteUnsupported = errors.New("ErrDeferredDeleteUnsupported")
)
