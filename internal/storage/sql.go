package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"postbot/core/logger"
	"log/slog"
)

// SQLStore persists entries in the kv_entries table. Queries use "?"
// bindvars and are rebound for the active driver, so the same store
// works against postgres and sqlite.
type SQLStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLStore wraps an open database handle.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

type kvRow struct {
	Value     string `db:"value"`
	Revision  int64  `db:"revision"`
	ExpiresAt int64  `db:"expires_at"`
}

// Get returns the live entry for key.
func (s *SQLStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	q := s.db.Rebind(`SELECT value, revision, expires_at FROM kv_entries WHERE key = ? AND expires_at > ?`)
	var row kvRow
	err := s.db.GetContext(ctx, &row, q, key, s.now().Unix())
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return Entry{Value: row.Value, Revision: row.Revision}, true, nil
}

// Set upserts the entry, bumping its revision.
func (s *SQLStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	q := s.db.Rebind(`
		INSERT INTO kv_entries (key, value, revision, expires_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (key) DO UPDATE
		SET value = excluded.value,
		    revision = kv_entries.revision + 1,
		    expires_at = excluded.expires_at`)
	if _, err := s.db.ExecContext(ctx, q, key, value, s.expiry(ttl)); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

// CompareAndSet upserts the entry only when the stored revision matches expect.
func (s *SQLStore) CompareAndSet(ctx context.Context, key, value string, ttl time.Duration, expect int64) error {
	now := s.now().Unix()

	var res sql.Result
	var err error
	if expect == 0 {
		// The caller saw no entry; an expired leftover row may still
		// occupy the key, which counts as absent.
		q := s.db.Rebind(`
			INSERT INTO kv_entries (key, value, revision, expires_at)
			VALUES (?, ?, 1, ?)
			ON CONFLICT (key) DO UPDATE
			SET value = excluded.value,
			    revision = 1,
			    expires_at = excluded.expires_at
			WHERE kv_entries.expires_at <= ?`)
		res, err = s.db.ExecContext(ctx, q, key, value, s.expiry(ttl), now)
	} else {
		q := s.db.Rebind(`
			UPDATE kv_entries
			SET value = ?, revision = revision + 1, expires_at = ?
			WHERE key = ? AND revision = ? AND expires_at > ?`)
		res, err = s.db.ExecContext(ctx, q, value, s.expiry(ttl), key, expect, now)
	}
	if err != nil {
		return fmt.Errorf("kv cas %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("kv cas %q: %w", key, err)
	}
	if n == 0 {
		logger.KV.Debug("cas conflict",
			slog.String("event", "kv.cas_conflict"),
			slog.String("op", "cas"),
		)
		return ErrRevisionConflict
	}
	return nil
}

// Delete removes the entry for key.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	q := s.db.Rebind(`DELETE FROM kv_entries WHERE key = ?`)
	if _, err := s.db.ExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// Prune drops expired rows. Intended for periodic housekeeping; the
// store stays correct without it since reads filter on expiry.
func (s *SQLStore) Prune(ctx context.Context) (int64, error) {
	q := s.db.Rebind(`DELETE FROM kv_entries WHERE expires_at <= ?`)
	res, err := s.db.ExecContext(ctx, q, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("kv prune: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *SQLStore) expiry(ttl time.Duration) int64 {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return s.now().Add(ttl).Unix()
}
