package flow

import (
	"context"
	"strings"
	"testing"
	"time"

	"postbot/internal/msglink"
	"postbot/internal/notice"
	"postbot/internal/session"
	"postbot/internal/storage"
)

type publishCall struct {
	target   string
	post     session.Post
	keyboard [][]Button
}

type replaceCall struct {
	link     msglink.Link
	keyboard [][]Button
}

type fakeTransport struct {
	member     bool
	memberErr  error
	publishErr error
	replaceErr error

	published    []publishCall
	replaced     []replaceCall
	memberChecks int
}

func (f *fakeTransport) Publish(_ context.Context, target string, post session.Post, kb [][]Button) (int, error) {
	if f.publishErr != nil {
		return 0, f.publishErr
	}
	f.published = append(f.published, publishCall{target: target, post: post, keyboard: kb})
	return 1000 + len(f.published), nil
}

func (f *fakeTransport) ReplaceMarkup(_ context.Context, link msglink.Link, kb [][]Button) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaced = append(f.replaced, replaceCall{link: link, keyboard: kb})
	return nil
}

func (f *fakeTransport) CheckMembership(_ context.Context, link msglink.Link) (bool, error) {
	f.memberChecks++
	return f.member, f.memberErr
}

func newTestController(t *testing.T) (*Controller, *fakeTransport, *session.Store) {
	t.Helper()
	kv := storage.NewMemoryStore()
	sessions := session.NewStore(kv, time.Hour)
	notices := notice.New(kv, time.Hour)
	tr := &fakeTransport{member: true}
	return NewController(sessions, notices, tr), tr, sessions
}

const (
	testUser int64 = 77
	testChat int64 = 77
)

func drive(t *testing.T, c *Controller, evs ...Event) Result {
	t.Helper()
	var last Result
	for _, ev := range evs {
		res, err := c.Handle(context.Background(), testUser, testChat, ev)
		if err != nil {
			t.Fatalf("handle %+v: %v", ev, err)
		}
		last = res
	}
	return last
}

func loadSession(t *testing.T, s *session.Store) *session.Session {
	t.Helper()
	sess, err := s.Get(context.Background(), testUser)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	return sess
}

func tok(s string) Event { return Event{Kind: EventToken, Token: s} }
func txt(s string) Event { return Event{Kind: EventText, Text: s} }

func TestComposeEndToEnd(t *testing.T) {
	c, tr, store := newTestController(t)

	drive(t, c,
		tok("menu:new"),
		txt("hello world"),
		tok("c:img:no"),
		tok("c:colins:0:0"),
		txt("Open"),
		tok("c:act:link"),
		txt("https://example.com"),
		tok("c:done"),
		tok("c:review:ok"),
		txt("@mychannel"),
		tok("c:send"),
	)

	if len(tr.published) != 1 {
		t.Fatalf("published %d times, want 1", len(tr.published))
	}
	call := tr.published[0]
	if call.target != "@mychannel" {
		t.Fatalf("target = %q", call.target)
	}
	if call.post.Text != "hello world" {
		t.Fatalf("post text = %q", call.post.Text)
	}
	if len(call.keyboard) != 1 || len(call.keyboard[0]) != 1 {
		t.Fatalf("keyboard shape = %v", call.keyboard)
	}
	if b := call.keyboard[0][0]; b.Label != "Open" || b.URL != "https://example.com" {
		t.Fatalf("button = %+v", b)
	}

	sess := loadSession(t, store)
	if sess.Step != session.StepIdle {
		t.Fatalf("step after send = %q, want idle", sess.Step)
	}
	if !sess.Post.Empty() || len(sess.Post.Grid) != 0 {
		t.Fatalf("compose state not reset: %+v", sess.Post)
	}
}

func TestComposeImagePlacement(t *testing.T) {
	c, _, store := newTestController(t)

	drive(t, c,
		tok("menu:new"),
		txt("caption"),
		tok("c:img:yes"),
		Event{Kind: EventPhoto, PhotoID: "file-abc"},
		tok("c:imgpos:top"),
	)

	sess := loadSession(t, store)
	if sess.Step != session.StepEditingButtons {
		t.Fatalf("step = %q", sess.Step)
	}
	if sess.Post.PhotoID != "file-abc" || !sess.Post.PhotoTop {
		t.Fatalf("photo state = %+v", sess.Post)
	}
}

func TestAttachReplacesMarkupExactlyOnce(t *testing.T) {
	c, tr, store := newTestController(t)

	drive(t, c,
		tok("menu:attach"),
		tok("a:colins:0:0"),
		txt("Info"),
		tok("a:act:alert"),
		txt("short text"),
		tok("a:done"),
		txt("https://t.me/somechan/42"),
	)

	if tr.memberChecks != 1 {
		t.Fatalf("membership checked %d times, want 1", tr.memberChecks)
	}
	if len(tr.replaced) != 1 {
		t.Fatalf("replaced %d times, want 1", len(tr.replaced))
	}
	call := tr.replaced[0]
	if call.link.Username != "somechan" || call.link.MessageID != 42 {
		t.Fatalf("link = %+v", call.link)
	}
	b := call.keyboard[0][0]
	if b.Label != "Info" || !notice.IsAlertData(b.Token) {
		t.Fatalf("button = %+v", b)
	}

	sess := loadSession(t, store)
	if sess.Attach.Step != session.AttachIdle {
		t.Fatalf("attach step = %q, want idle", sess.Attach.Step)
	}
}

func TestAttachPrivateLinkChatID(t *testing.T) {
	c, tr, _ := newTestController(t)

	drive(t, c,
		tok("menu:attach"),
		tok("a:colins:0:0"),
		txt("Go"),
		tok("a:act:link"),
		txt("https://example.com/x"),
		tok("a:done"),
		txt("https://t.me/c/1234567890/42"),
	)

	if len(tr.replaced) != 1 {
		t.Fatalf("replaced %d times, want 1", len(tr.replaced))
	}
	if got := tr.replaced[0].link.ChatID; got != -1001234567890 {
		t.Fatalf("chat id = %d", got)
	}
}

func TestAttachBadLinkStaysLocal(t *testing.T) {
	c, tr, store := newTestController(t)

	res := drive(t, c,
		tok("menu:attach"),
		tok("a:colins:0:0"),
		txt("Go"),
		tok("a:act:link"),
		txt("https://example.com/x"),
		tok("a:done"),
		txt("this is not a link"),
	)

	if tr.memberChecks != 0 || len(tr.replaced) != 0 {
		t.Fatalf("transport touched on bad link: checks=%d replaced=%d", tr.memberChecks, len(tr.replaced))
	}
	if len(res.Renders) != 1 || res.Renders[0].Text != msgBadLink {
		t.Fatalf("render = %+v", res.Renders)
	}
	sess := loadSession(t, store)
	if sess.Attach.Step != session.AttachAwaitingLink {
		t.Fatalf("attach step = %q, want awaiting_link", sess.Attach.Step)
	}
}

func TestAttachDoneNeedsButtons(t *testing.T) {
	c, _, store := newTestController(t)

	res := drive(t, c, tok("menu:attach"), tok("a:done"))

	if res.Answer != msgNeedButtons {
		t.Fatalf("answer = %q, want %q", res.Answer, msgNeedButtons)
	}
	sess := loadSession(t, store)
	if sess.Attach.Step != session.AttachEditingButtons {
		t.Fatalf("attach step = %q, want editing_buttons", sess.Attach.Step)
	}
}

func TestAttachNoRights(t *testing.T) {
	c, tr, store := newTestController(t)
	tr.member = false

	res := drive(t, c,
		tok("menu:attach"),
		tok("a:colins:0:0"),
		txt("Go"),
		tok("a:act:link"),
		txt("https://example.com/x"),
		tok("a:done"),
		txt("https://t.me/somechan/42"),
	)

	if len(tr.replaced) != 0 {
		t.Fatalf("markup replaced despite missing rights")
	}
	if res.Renders[0].Text != msgNoRights {
		t.Fatalf("render text = %q", res.Renders[0].Text)
	}
	if sess := loadSession(t, store); sess.Attach.Step != session.AttachAwaitingLink {
		t.Fatalf("attach step = %q, want awaiting_link", sess.Attach.Step)
	}
}

func TestBackUndoesRowInsertion(t *testing.T) {
	c, _, store := newTestController(t)

	drive(t, c,
		tok("menu:new"),
		txt("post"),
		tok("c:img:no"),
		tok("c:colins:0:0"),
		txt("A"),
		tok("c:act:link"),
		txt("https://example.com/a"),
	)

	if sess := loadSession(t, store); len(sess.Post.Grid) != 1 {
		t.Fatalf("grid rows = %d, want 1", len(sess.Post.Grid))
	}

	drive(t, c, tok("c:rowins:0"), tok("c:back"))

	sess := loadSession(t, store)
	if sess.Step != session.StepEditingButtons {
		t.Fatalf("step = %q", sess.Step)
	}
	if len(sess.Post.Grid) != 1 {
		t.Fatalf("grid rows after undo = %d, want 1", len(sess.Post.Grid))
	}
	if sess.Post.Grid[0][0].Label != "A" {
		t.Fatalf("surviving button = %+v", sess.Post.Grid[0][0])
	}
}

func TestCellEditReplacesInPlace(t *testing.T) {
	c, _, store := newTestController(t)

	drive(t, c,
		tok("menu:new"),
		txt("post"),
		tok("c:img:no"),
		tok("c:colins:0:0"),
		txt("Old"),
		tok("c:act:link"),
		txt("https://example.com/old"),
		tok("c:edit:0:0"),
		txt("New"),
		tok("c:act:alert"),
		txt("now an alert"),
	)

	sess := loadSession(t, store)
	g := sess.Post.Grid
	if len(g) != 1 || len(g[0]) != 1 {
		t.Fatalf("grid shape = %v", g)
	}
	if g[0][0].Label != "New" || g[0][0].Value != "now an alert" {
		t.Fatalf("cell = %+v", g[0][0])
	}
}

func TestBadURLRetainsStep(t *testing.T) {
	c, _, store := newTestController(t)

	res := drive(t, c,
		tok("menu:new"),
		txt("post"),
		tok("c:img:no"),
		tok("c:colins:0:0"),
		txt("A"),
		tok("c:act:link"),
		txt("ftp://example.com"),
	)

	if res.Renders[0].Text != msgBadURL {
		t.Fatalf("render text = %q", res.Renders[0].Text)
	}
	sess := loadSession(t, store)
	if sess.Step != session.StepEnteringValue {
		t.Fatalf("step = %q, want entering_value", sess.Step)
	}
	if len(sess.Post.Grid) != 0 {
		t.Fatalf("grid should be untouched, got %v", sess.Post.Grid)
	}
}

func TestGridControlsStaleOutsideEditor(t *testing.T) {
	c, _, store := newTestController(t)

	res := drive(t, c,
		tok("menu:new"),
		tok("c:skip"),
	)

	if res.Answer != msgStaleControl {
		t.Fatalf("answer = %q, want %q", res.Answer, msgStaleControl)
	}
	sess := loadSession(t, store)
	if sess.Step != session.StepWritingText {
		t.Fatalf("step = %q, want writing_text", sess.Step)
	}
}

func TestCancelResetsScopedFlow(t *testing.T) {
	c, _, store := newTestController(t)

	drive(t, c,
		tok("menu:new"),
		txt("post"),
		tok("menu:attach"),
		tok("a:cancel"),
	)

	sess := loadSession(t, store)
	if sess.Attach.Step != session.AttachIdle {
		t.Fatalf("attach step = %q, want idle", sess.Attach.Step)
	}
	if sess.Step != session.StepChoosingImage {
		t.Fatalf("compose step = %q, attach cancel must not touch it", sess.Step)
	}

	drive(t, c, tok("c:cancel"))
	sess = loadSession(t, store)
	if sess.Step != session.StepIdle {
		t.Fatalf("compose step = %q, want idle", sess.Step)
	}
}

func TestStaleControlAnswersAndReRenders(t *testing.T) {
	c, tr, _ := newTestController(t)

	res := drive(t, c, tok("c:send"))

	if res.Answer != msgStaleControl {
		t.Fatalf("answer = %q, want %q", res.Answer, msgStaleControl)
	}
	if len(res.Renders) != 1 {
		t.Fatalf("renders = %d, want 1", len(res.Renders))
	}
	if res.Renders[0].Text != msgHome {
		t.Fatalf("idle re-render = %q, want home menu", res.Renders[0].Text)
	}
	if len(tr.published) != 0 {
		t.Fatalf("publish called on stale control")
	}
}

func TestLongAlertValueGetsReference(t *testing.T) {
	c, tr, _ := newTestController(t)

	long := strings.Repeat("a very long alert text ", 20)
	drive(t, c,
		tok("menu:new"),
		txt("post"),
		tok("c:img:no"),
		tok("c:colins:0:0"),
		txt("Why?"),
		tok("c:act:alert"),
		txt(long),
		tok("c:done"),
		tok("c:review:ok"),
		txt("@ch12345"),
		tok("c:send"),
	)

	if len(tr.published) != 1 {
		t.Fatalf("published %d times, want 1", len(tr.published))
	}
	b := tr.published[0].keyboard[0][0]
	if !notice.IsAlertData(b.Token) {
		t.Fatalf("token %q is not alert data", b.Token)
	}
	if len(b.Token) > notice.MaxCallbackBytes {
		t.Fatalf("token %q exceeds %d bytes", b.Token, notice.MaxCallbackBytes)
	}
}

// conflictOnce delegates to the wrapped store but fails the first
// CompareAndSet, simulating a concurrent event winning the commit.
type conflictOnce struct {
	storage.Store
	fired bool
}

func (c *conflictOnce) CompareAndSet(ctx context.Context, key, value string, ttl time.Duration, expect int64) error {
	if !c.fired {
		c.fired = true
		return storage.ErrRevisionConflict
	}
	return c.Store.CompareAndSet(ctx, key, value, ttl, expect)
}

func TestLostCommitRaceReRendersFreshState(t *testing.T) {
	kv := &conflictOnce{Store: storage.NewMemoryStore()}
	sessions := session.NewStore(kv, time.Hour)
	notices := notice.New(kv, time.Hour)
	c := NewController(sessions, notices, &fakeTransport{})

	res, err := c.Handle(context.Background(), testUser, testChat, tok("menu:new"))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if res.Answer != msgRaceLost {
		t.Fatalf("answer = %q, want %q", res.Answer, msgRaceLost)
	}
	if len(res.Renders) != 1 {
		t.Fatalf("renders = %d, want 1", len(res.Renders))
	}

	sess := loadSession(t, sessions)
	if sess.Step != session.StepIdle {
		t.Fatalf("step = %q, lost transition must not persist", sess.Step)
	}
}
