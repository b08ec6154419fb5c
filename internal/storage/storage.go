package storage

import (
	"context"
	"errors"
	"time"
)

// ErrRevisionConflict is returned by CompareAndSet when the stored entry
// was modified after the caller read it.
var ErrRevisionConflict = errors.New("storage: revision conflict")

// Entry is a stored value together with its commit revision.
type Entry struct {
	Value    string
	Revision int64
}

// Store is a key-value store with per-entry expiry. Expired entries are
// indistinguishable from absent ones.
type Store interface {
	// Get returns the entry for key, reporting false when the key is
	// absent or expired.
	Get(ctx context.Context, key string) (Entry, bool, error)

	// Set writes value under key unconditionally, bumping the revision.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// CompareAndSet writes value under key only when the stored revision
	// still equals expect (0 for a key the caller observed as absent).
	// Returns ErrRevisionConflict otherwise.
	CompareAndSet(ctx context.Context, key, value string, ttl time.Duration, expect int64) error

	// Delete removes key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
