// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
)

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates missing or malformed caller input.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates failed authentication/authorization.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")
)

// PartialSyncError reports a denormalization fan-out that stopped partway: the
// canonical batch write already committed, the users in Synced carry the fresh
// snapshot, and the users in Remaining still hold a stale copy.
type PartialSyncError struct {
	BatchID   uuid.UUID
	Synced    []uuid.UUID
	Remaining []uuid.UUID
	Err       error
}

func (e *PartialSyncError) Error() string {
	return fmt.Sprintf("batch %s: embedded copies out of sync (%d refreshed, %d stale): %v",
		e.BatchID, len(e.Synced), len(e.Remaining), e.Err)
}

func (e *PartialSyncError) Unwrap() error { return e.Err }
