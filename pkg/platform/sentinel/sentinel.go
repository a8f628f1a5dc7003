package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped)
// and services translate them into domain errors:
// - ErrNotFound: row does not exist, or exists but is soft-deleted
// - ErrConflict: unique key already taken
// - ErrInvalidState: row is not in the state the operation expects
// - ErrUnavailable: backing service cannot be reached
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
