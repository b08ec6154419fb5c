package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"postbot/internal/grid"
	"postbot/internal/storage"
)

func TestStoreDefaultsToIdle(t *testing.T) {
	ctx := context.Background()
	st := NewStore(storage.NewMemoryStore(), time.Hour)

	sess, err := st.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess.Step != StepIdle || sess.Attach.Step != AttachIdle {
		t.Fatalf("fresh session = %+v", sess)
	}
	if sess.Revision != 0 {
		t.Fatalf("fresh revision = %d", sess.Revision)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewStore(storage.NewMemoryStore(), time.Hour)

	sess, _ := st.Get(ctx, 7)
	sess.Step = StepEditingButtons
	sess.Post.Text = "hello"
	sess.Post.Grid = grid.Grid{{{Label: "Visit", Kind: grid.ActionOpenLink, Value: "https://example.com"}}}
	if err := st.Commit(ctx, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, err := st.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Step != StepEditingButtons || got.Post.Text != "hello" {
		t.Fatalf("session = %+v", got)
	}
	if len(got.Post.Grid) != 1 || got.Post.Grid[0][0].Label != "Visit" {
		t.Fatalf("grid = %v", got.Post.Grid)
	}
	if got.Revision != 1 {
		t.Fatalf("revision = %d", got.Revision)
	}
}

func TestStoreDetectsConcurrentCommit(t *testing.T) {
	ctx := context.Background()
	st := NewStore(storage.NewMemoryStore(), time.Hour)

	a, _ := st.Get(ctx, 7)
	b, _ := st.Get(ctx, 7)

	a.Step = StepWritingText
	if err := st.Commit(ctx, a); err != nil {
		t.Fatalf("first commit: %v", err)
	}

	b.Step = StepReviewing
	err := st.Commit(ctx, b)
	if !errors.Is(err, storage.ErrRevisionConflict) {
		t.Fatalf("second commit err = %v, want revision conflict", err)
	}

	got, _ := st.Get(ctx, 7)
	if got.Step != StepWritingText {
		t.Fatalf("step = %q, first write was clobbered", got.Step)
	}
}

func TestStoreCorruptRecordFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	st := NewStore(kv, time.Hour)

	_ = kv.Set(ctx, "session:7", "{not json", time.Hour)
	sess, err := st.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess.Step != StepIdle {
		t.Fatalf("session = %+v", sess)
	}
}

func TestResetKeepsFlowsIndependent(t *testing.T) {
	sess := New(7)
	sess.Step = StepReviewing
	sess.Post.Text = "hello"
	sess.Attach.Step = AttachAwaitingLink
	sess.Attach.Grid = grid.Grid{{{Label: "A"}}}

	sess.ResetCompose()
	if sess.Step != StepIdle || !sess.Post.Empty() {
		t.Fatalf("compose not reset: %+v", sess)
	}
	if sess.Attach.Step != AttachAwaitingLink || len(sess.Attach.Grid) != 1 {
		t.Fatalf("attach flow touched by compose reset: %+v", sess.Attach)
	}

	sess.ResetAttach()
	if sess.Attach.Step != AttachIdle || sess.Attach.Grid != nil {
		t.Fatalf("attach not reset: %+v", sess.Attach)
	}
}
