// Package notice keeps alert-button texts under Telegram's callback
// data ceiling. Short texts travel inline in the callback identifier;
// anything larger is swapped for a short random reference resolved
// against the key-value store when the button is tapped.
package notice

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"postbot/core/logger"
	"postbot/internal/storage"
	"log/slog"
)

// MaxCallbackBytes is Telegram's callback_data size limit in UTF-8 bytes.
// The limit applies to the full identifier, prefix included.
const MaxCallbackBytes = 64

const (
	// inlinePrefix marks callback data carrying the alert text itself.
	inlinePrefix = "alr:"
	// refPrefix marks callback data carrying a stored reference.
	refPrefix = "ntc:"

	storeKeyPrefix = "notice:"

	// ExpiredText is surfaced when a reference no longer resolves.
	ExpiredText = "This notice has expired."
)

// Service swaps oversized alert payloads for stored references.
type Service struct {
	store storage.Store
	ttl   time.Duration
}

// New creates a Service storing overflow texts with the given TTL.
func New(store storage.Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Service{store: store, ttl: ttl}
}

// AlertData returns callback data for an alert button with the given
// text: the inline form when it fits the ceiling, otherwise a reference
// to the stored text.
func (s *Service) AlertData(ctx context.Context, text string) (string, error) {
	candidate := inlinePrefix + text
	if len(candidate) <= MaxCallbackBytes {
		return candidate, nil
	}

	ref, err := s.put(ctx, text)
	if err != nil {
		return "", err
	}
	logger.SVCNotices.Debug("notice stored",
		slog.String("event", "notice.store"),
		slog.String("ref", ref),
		slog.Int("bytes", len(text)),
	)
	return refPrefix + ref, nil
}

// IsAlertData reports whether data was produced by AlertData.
func IsAlertData(data string) bool {
	return strings.HasPrefix(data, inlinePrefix) || strings.HasPrefix(data, refPrefix)
}

// Resolve returns the alert text for callback data produced by
// AlertData. A reference that is missing or expired yields ExpiredText;
// resolution never fails the interaction.
func (s *Service) Resolve(ctx context.Context, data string) string {
	if text, ok := strings.CutPrefix(data, inlinePrefix); ok {
		return text
	}
	ref, ok := strings.CutPrefix(data, refPrefix)
	if !ok {
		return ExpiredText
	}
	e, found, err := s.store.Get(ctx, storeKeyPrefix+ref)
	if err != nil {
		logger.SVCNotices.Warn("notice lookup failed",
			slog.String("event", "notice.lookup"),
			slog.String("ref", ref),
			slog.String("err", err.Error()),
		)
		return ExpiredText
	}
	if !found {
		return ExpiredText
	}
	return e.Value
}

// put stores text under a fresh short reference. References are checked
// against the store before use; after eight collisions in a row a UUID
// takes over as a last resort.
func (s *Service) put(ctx context.Context, text string) (string, error) {
	for i := 0; i < 8; i++ {
		ref, err := newRef()
		if err != nil {
			return "", err
		}
		if _, exists, err := s.store.Get(ctx, storeKeyPrefix+ref); err != nil {
			return "", err
		} else if exists {
			continue
		}
		if err := s.store.Set(ctx, storeKeyPrefix+ref, text, s.ttl); err != nil {
			return "", err
		}
		return ref, nil
	}

	ref := uuid.NewString()
	if err := s.store.Set(ctx, storeKeyPrefix+ref, text, s.ttl); err != nil {
		return "", err
	}
	return ref, nil
}

func newRef() (string, error) {
	var buf [6]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("notice ref: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf[:]), nil
}
