package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("get missing: ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "k", "v1", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	e, ok, err := s.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if e.Value != "v1" || e.Revision != 1 {
		t.Fatalf("entry = %+v", e)
	}

	if err := s.Set(ctx, "k", "v2", time.Minute); err != nil {
		t.Fatalf("set again: %v", err)
	}
	e, _, _ = s.Get(ctx, "k")
	if e.Value != "v2" || e.Revision != 2 {
		t.Fatalf("entry after overwrite = %+v", e)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Now()
	s.now = func() time.Time { return base }

	if err := s.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("expected entry to expire")
	}

	// An expired row counts as absent for CompareAndSet with expect 0.
	if err := s.CompareAndSet(ctx, "k", "fresh", time.Minute, 0); err != nil {
		t.Fatalf("cas over expired: %v", err)
	}
	e, ok, _ := s.Get(ctx, "k")
	if !ok || e.Value != "fresh" || e.Revision != 1 {
		t.Fatalf("entry after cas = %+v ok=%v", e, ok)
	}
}

func TestMemoryStoreCompareAndSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.CompareAndSet(ctx, "k", "v1", time.Minute, 0); err != nil {
		t.Fatalf("initial cas: %v", err)
	}
	if err := s.CompareAndSet(ctx, "k", "v2", time.Minute, 0); !errors.Is(err, ErrRevisionConflict) {
		t.Fatalf("cas with stale expect: %v", err)
	}
	if err := s.CompareAndSet(ctx, "k", "v2", time.Minute, 1); err != nil {
		t.Fatalf("cas with matching expect: %v", err)
	}
	e, _, _ := s.Get(ctx, "k")
	if e.Value != "v2" || e.Revision != 2 {
		t.Fatalf("entry = %+v", e)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	_ = s.Set(ctx, "k", "v", time.Minute)
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("expected entry gone after delete")
	}
}
