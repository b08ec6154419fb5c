package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"postbot/core/logger"
	"postbot/internal/storage"
	"log/slog"
)

const keyPrefix = "session:"

// Store persists sessions in the key-value store with a TTL refreshed
// on every commit, so abandoned conversations age out on their own.
type Store struct {
	kv  storage.Store
	ttl time.Duration
}

// NewStore wraps the key-value store.
func NewStore(kv storage.Store, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{kv: kv, ttl: ttl}
}

// Get loads the user's session, returning a fresh idle one when none is
// stored or the stored record no longer decodes.
func (s *Store) Get(ctx context.Context, userID int64) (*Session, error) {
	e, ok, err := s.kv.Get(ctx, key(userID))
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	if !ok {
		return New(userID), nil
	}

	sess := New(userID)
	if err := json.Unmarshal([]byte(e.Value), sess); err != nil {
		logger.SVCSessions.Warn("session decode failed, starting fresh",
			slog.String("event", "session.decode"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return New(userID), nil
	}
	sess.UserID = userID
	sess.Revision = e.Revision
	return sess, nil
}

// Commit writes the session back, failing with
// storage.ErrRevisionConflict when another event committed first.
func (s *Store) Commit(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.kv.CompareAndSet(ctx, key(sess.UserID), string(raw), s.ttl, sess.Revision); err != nil {
		return err
	}
	sess.Revision++
	return nil
}

// Delete drops the user's session entirely.
func (s *Store) Delete(ctx context.Context, userID int64) error {
	return s.kv.Delete(ctx, key(userID))
}

func key(userID int64) string {
	return keyPrefix + strconv.FormatInt(userID, 10)
}
