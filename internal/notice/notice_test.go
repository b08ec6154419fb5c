package notice

import (
	"context"
	"strings"
	"testing"
	"time"

	"postbot/internal/storage"
)

func newService() (*Service, *storage.MemoryStore) {
	st := storage.NewMemoryStore()
	return New(st, time.Hour), st
}

func TestShortTextTravelsInline(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	data, err := svc.AlertData(ctx, "ok")
	if err != nil {
		t.Fatalf("AlertData: %v", err)
	}
	if data != "alr:ok" {
		t.Fatalf("data = %q", data)
	}
	if got := svc.Resolve(ctx, data); got != "ok" {
		t.Fatalf("Resolve = %q", got)
	}
}

func TestCeilingCountsRoutingPrefix(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	fits := strings.Repeat("x", MaxCallbackBytes-len(inlinePrefix))
	data, err := svc.AlertData(ctx, fits)
	if err != nil {
		t.Fatalf("AlertData: %v", err)
	}
	if data != inlinePrefix+fits {
		t.Fatalf("text filling the ceiling should travel inline, got %q", data)
	}

	over := fits + "x"
	data, err = svc.AlertData(ctx, over)
	if err != nil {
		t.Fatalf("AlertData: %v", err)
	}
	if !strings.HasPrefix(data, refPrefix) {
		t.Fatalf("text one byte over should take the reference path, got %q", data)
	}
	if got := svc.Resolve(ctx, data); got != over {
		t.Fatalf("Resolve = %q", got)
	}
}

func TestLongTextUsesReference(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	text := strings.Repeat("long alert text ", 20)
	data, err := svc.AlertData(ctx, text)
	if err != nil {
		t.Fatalf("AlertData: %v", err)
	}
	if !strings.HasPrefix(data, "ntc:") {
		t.Fatalf("data = %q, want reference form", data)
	}
	if data == text || strings.Contains(data, text) {
		t.Fatal("reference must differ from the raw payload")
	}
	if len(data) > MaxCallbackBytes {
		t.Fatalf("reference data is %d bytes, over the ceiling", len(data))
	}
	if got := svc.Resolve(ctx, data); got != text {
		t.Fatalf("Resolve = %q, want original text", got)
	}
}

func TestExpiredReferenceYieldsSentinel(t *testing.T) {
	ctx := context.Background()
	svc, st := newService()

	text := strings.Repeat("x", 100)
	data, err := svc.AlertData(ctx, text)
	if err != nil {
		t.Fatalf("AlertData: %v", err)
	}

	ref := strings.TrimPrefix(data, "ntc:")
	if err := st.Delete(ctx, "notice:"+ref); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got := svc.Resolve(ctx, data); got != ExpiredText {
		t.Fatalf("Resolve after delete = %q, want sentinel", got)
	}
}

func TestResolveUnknownShapeYieldsSentinel(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	if got := svc.Resolve(ctx, "garbage"); got != ExpiredText {
		t.Fatalf("Resolve = %q", got)
	}
}

func TestIsAlertData(t *testing.T) {
	if !IsAlertData("alr:hi") || !IsAlertData("ntc:abc12345") {
		t.Fatal("expected alert data forms to be recognized")
	}
	if IsAlertData("grid:cell:0:0") {
		t.Fatal("unrelated data recognized as alert data")
	}
}

func TestReferencesAreDistinct(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	text := strings.Repeat("y", 200)
	seen := map[string]bool{}
	for i := 0; i < 16; i++ {
		data, err := svc.AlertData(ctx, text)
		if err != nil {
			t.Fatalf("AlertData: %v", err)
		}
		if seen[data] {
			t.Fatalf("duplicate reference %q", data)
		}
		seen[data] = true
	}
}
