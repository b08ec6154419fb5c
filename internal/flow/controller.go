// Package flow is the conversational state machine behind the bot: it
// turns inbound events into session transitions and render
// instructions, keeping all Telegram specifics behind the Transport
// interface.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"postbot/core/logger"
	"postbot/core/telegram/format"
	"postbot/internal/grid"
	"postbot/internal/msglink"
	"postbot/internal/notice"
	"postbot/internal/session"
	"postbot/internal/storage"
)

// EventKind discriminates inbound events.
type EventKind int

const (
	// EventText is a plain text message.
	EventText EventKind = iota
	// EventPhoto is a photo message.
	EventPhoto
	// EventToken is a tapped inline control.
	EventToken
	// EventStart is the /start command.
	EventStart
	// EventCancel is the /cancel command.
	EventCancel
)

// Event is one normalized inbound update.
type Event struct {
	Kind    EventKind
	Text    string
	PhotoID string
	Token   string
}

// Transport is the outbound side effects the flow can request. Menu
// renders are returned in Result instead; Transport is only the
// operations that touch real chats.
type Transport interface {
	// Publish delivers a finished post to the target chat and returns
	// the new message id.
	Publish(ctx context.Context, target string, post session.Post, keyboard [][]Button) (int, error)
	// ReplaceMarkup swaps the inline keyboard of an existing message.
	ReplaceMarkup(ctx context.Context, link msglink.Link, keyboard [][]Button) error
	// CheckMembership reports whether the bot can edit messages in the
	// linked chat.
	CheckMembership(ctx context.Context, link msglink.Link) (bool, error)
}

// Controller drives both flows over persisted sessions.
type Controller struct {
	sessions *session.Store
	notices  *notice.Service
	tr       Transport
}

// NewController wires the flow over its collaborators.
func NewController(sessions *session.Store, notices *notice.Service, tr Transport) *Controller {
	return &Controller{sessions: sessions, notices: notices, tr: tr}
}

// Handle processes one inbound event for a user: load the session
// once, apply the transition, commit once. A lost commit race means
// another event already moved the session; the fresh state is
// re-rendered instead of retrying the stale transition.
func (c *Controller) Handle(ctx context.Context, userID, chatID int64, ev Event) (Result, error) {
	sess, err := c.sessions.Get(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	res := c.dispatch(ctx, chatID, sess, ev)
	res.MenuMessageID = sess.LastMessageID

	if err := c.sessions.Commit(ctx, sess); err != nil {
		if !errors.Is(err, storage.ErrRevisionConflict) {
			return Result{}, err
		}
		logger.SVCFlow.Warn("session commit lost the race, re-rendering",
			slog.String("event", "flow.conflict"),
			slog.Int64("user_id", userID),
			slog.String("step", string(sess.Step)),
		)
		fresh, gerr := c.sessions.Get(ctx, userID)
		if gerr != nil {
			return Result{}, gerr
		}
		out := c.renderCurrent(fresh)
		out.Answer = msgRaceLost
		out.MenuMessageID = fresh.LastMessageID
		return out, nil
	}
	return res, nil
}

// RememberMenuMessage records the id of the menu message just sent so
// the next render can edit it in place. Best effort: a commit race
// here only costs one extra message later.
func (c *Controller) RememberMenuMessage(ctx context.Context, userID int64, messageID int) error {
	for attempt := 0; attempt < 2; attempt++ {
		sess, err := c.sessions.Get(ctx, userID)
		if err != nil {
			return err
		}
		if sess.LastMessageID == messageID {
			return nil
		}
		sess.LastMessageID = messageID
		err = c.sessions.Commit(ctx, sess)
		if err == nil || !errors.Is(err, storage.ErrRevisionConflict) {
			return err
		}
	}
	return nil
}

func (c *Controller) dispatch(ctx context.Context, chatID int64, sess *session.Session, ev Event) Result {
	switch ev.Kind {
	case EventStart:
		return homeMenu()
	case EventCancel:
		sess.ResetCompose()
		sess.ResetAttach()
		r := homeMenu()
		r.Answer = msgCancelled
		return r
	case EventToken:
		return c.handleToken(ctx, chatID, sess, ParseCommand(ev.Token))
	case EventText:
		return c.handleText(ctx, sess, strings.TrimSpace(ev.Text))
	case EventPhoto:
		return c.handlePhoto(sess, ev.PhotoID)
	default:
		return Result{}
	}
}

// --- token dispatch ---

func (c *Controller) handleToken(ctx context.Context, chatID int64, sess *session.Session, cmd Command) Result {
	switch cmd.Kind {
	case CmdUnknown, CmdNoop:
		return Result{}

	case CmdMenuNew:
		sess.ResetCompose()
		sess.Step = session.StepWritingText
		return oneRender(msgAskText, [][]Button{cancelRow(false)})

	case CmdMenuAttach:
		sess.ResetAttach()
		sess.Attach.Step = session.AttachEditingButtons
		return c.renderEditor(sess, true)

	case CmdCancel:
		if cmd.Attach {
			sess.ResetAttach()
		} else {
			sess.ResetCompose()
		}
		r := homeMenu()
		r.Answer = msgCancelled
		return r

	case CmdBack:
		return c.handleBack(sess, cmd.Attach)

	case CmdRowInsert, CmdColInsert, CmdCellTap, CmdCellEdit, CmdCellDelete:
		return c.handleGridToken(sess, cmd)

	case CmdGridDone, CmdGridSkip:
		return c.handleGridFinish(sess, cmd)

	case CmdActionChoice:
		return c.handleActionChoice(sess, cmd)

	case CmdImageChoice:
		if sess.Step != session.StepChoosingImage {
			return c.stale(sess)
		}
		if cmd.Choice == "yes" {
			sess.Step = session.StepAwaitingImage
			return oneRender(msgAskPhoto, [][]Button{cancelRow(false)})
		}
		sess.Step = session.StepEditingButtons
		return c.renderEditor(sess, false)

	case CmdImagePosition:
		if sess.Step != session.StepChoosingImgPos {
			return c.stale(sess)
		}
		sess.Post.PhotoTop = cmd.Choice == "top"
		sess.Step = session.StepEditingButtons
		return c.renderEditor(sess, false)

	case CmdReviewOK:
		if sess.Step != session.StepReviewing {
			return c.stale(sess)
		}
		if sess.Post.Empty() {
			r := c.renderReview(sess)
			r.Answer = msgNeedContent
			return r
		}
		sess.Step = session.StepChoosingTarget
		return c.renderTarget()

	case CmdTargetSelf:
		if sess.Step != session.StepChoosingTarget {
			return c.stale(sess)
		}
		sess.TargetChat = strconv.FormatInt(chatID, 10)
		sess.Step = session.StepConfirming
		return c.renderConfirm(sess)

	case CmdConfirmSend:
		if sess.Step != session.StepConfirming {
			return c.stale(sess)
		}
		return c.publish(ctx, sess)
	}
	return Result{}
}

// --- grid editing, shared by both flows ---

// editView is a uniform handle on whichever flow's grid is being
// edited.
type editView struct {
	g     *grid.Grid
	cur   *session.Cursor
	label *string
	kind  *grid.ActionKind
}

func view(sess *session.Session, attach bool) editView {
	if attach {
		a := &sess.Attach
		return editView{g: &a.Grid, cur: &a.Cursor, label: &a.PendingLabel, kind: &a.PendingKind}
	}
	return editView{g: &sess.Post.Grid, cur: &sess.Cursor, label: &sess.PendingLabel, kind: &sess.PendingKind}
}

func (c *Controller) inEditor(sess *session.Session, attach bool) bool {
	if attach {
		return sess.Attach.Step == session.AttachEditingButtons
	}
	return sess.Step == session.StepEditingButtons
}

func (c *Controller) handleGridToken(sess *session.Session, cmd Command) Result {
	if !c.inEditor(sess, cmd.Attach) {
		return c.stale(sess)
	}
	v := view(sess, cmd.Attach)

	switch cmd.Kind {
	case CmdRowInsert:
		if cmd.Row > len(*v.g) {
			return c.stale(sess)
		}
		*v.g = grid.InsertRow(*v.g, cmd.Row)
		*v.cur = session.Cursor{Row: cmd.Row, IsNew: true}
		return c.enterNaming(sess, cmd.Attach)

	case CmdColInsert:
		if cmd.Row > len(*v.g) || (cmd.Row < len(*v.g) && cmd.Col > len((*v.g)[cmd.Row])) {
			return c.stale(sess)
		}
		*v.cur = session.Cursor{Row: cmd.Row, Col: cmd.Col, IsNew: true}
		return c.enterNaming(sess, cmd.Attach)

	case CmdCellTap:
		b, ok := v.g.At(cmd.Row, cmd.Col)
		if !ok {
			return c.stale(sess)
		}
		rows := [][]Button{
			{
				{Label: "✏ Edit", Token: token(cmd.Attach, "edit", cmd.Row, cmd.Col)},
				{Label: "🗑 Delete", Token: token(cmd.Attach, "del", cmd.Row, cmd.Col)},
			},
			{{Label: "⬅ Back", Token: token(cmd.Attach, "back")}},
		}
		return oneRender(fmt.Sprintf("Button %q:", b.Label), rows)

	case CmdCellEdit:
		if _, ok := v.g.At(cmd.Row, cmd.Col); !ok {
			return c.stale(sess)
		}
		*v.cur = session.Cursor{Row: cmd.Row, Col: cmd.Col}
		return c.enterNaming(sess, cmd.Attach)

	case CmdCellDelete:
		if _, ok := v.g.At(cmd.Row, cmd.Col); !ok {
			return c.stale(sess)
		}
		*v.g = grid.DeleteCell(*v.g, cmd.Row, cmd.Col)
		return c.renderEditor(sess, cmd.Attach)
	}
	return Result{}
}

func (c *Controller) handleGridFinish(sess *session.Session, cmd Command) Result {
	if !c.inEditor(sess, cmd.Attach) {
		return c.stale(sess)
	}
	if cmd.Attach {
		if cmd.Kind == CmdGridSkip {
			return c.stale(sess)
		}
		if sess.Attach.Grid.Buttons() == 0 {
			r := c.renderEditor(sess, true)
			r.Answer = msgNeedButtons
			return r
		}
		sess.Attach.Step = session.AttachAwaitingLink
		return oneRender(msgAskLink, [][]Button{cancelRow(true)})
	}
	sess.Step = session.StepReviewing
	return c.renderReview(sess)
}

func (c *Controller) handleActionChoice(sess *session.Session, cmd Command) Result {
	if cmd.Attach {
		if sess.Attach.Step != session.AttachChoosingAction {
			return c.stale(sess)
		}
		sess.Attach.PendingKind = cmd.Action
		sess.Attach.Step = session.AttachEnteringValue
	} else {
		if sess.Step != session.StepChoosingAction {
			return c.stale(sess)
		}
		sess.PendingKind = cmd.Action
		sess.Step = session.StepEnteringValue
	}
	prompt := msgAskURL
	if cmd.Action == grid.ActionShowAlert {
		prompt = msgAskAlert
	}
	return oneRender(prompt, backCancelRows(cmd.Attach))
}

// handleBack walks one step back. Leaving an in-progress insertion
// also removes the row it opened, when that row is still empty, so the
// grid returns to its pre-insertion shape.
func (c *Controller) handleBack(sess *session.Session, attach bool) Result {
	v := view(sess, attach)

	undoInsert := func() {
		g := *v.g
		if v.cur.IsNew && v.cur.Row < len(g) && len(g[v.cur.Row]) == 0 {
			ng := g.Clone()
			*v.g = append(ng[:v.cur.Row], ng[v.cur.Row+1:]...)
		}
		*v.cur = session.Cursor{}
		*v.label = ""
		*v.kind = ""
	}

	if attach {
		switch sess.Attach.Step {
		case session.AttachNamingButton, session.AttachChoosingAction, session.AttachEnteringValue:
			undoInsert()
			sess.Attach.Step = session.AttachEditingButtons
			return c.renderEditor(sess, true)
		case session.AttachAwaitingLink:
			sess.Attach.Step = session.AttachEditingButtons
			return c.renderEditor(sess, true)
		case session.AttachEditingButtons:
			return c.renderEditor(sess, true)
		}
		return c.stale(sess)
	}

	switch sess.Step {
	case session.StepNamingButton, session.StepChoosingAction, session.StepEnteringValue:
		undoInsert()
		sess.Step = session.StepEditingButtons
		return c.renderEditor(sess, false)
	case session.StepEditingButtons:
		return c.renderEditor(sess, false)
	case session.StepReviewing:
		sess.Step = session.StepEditingButtons
		return c.renderEditor(sess, false)
	case session.StepChoosingTarget:
		sess.Step = session.StepReviewing
		return c.renderReview(sess)
	case session.StepConfirming:
		sess.Step = session.StepChoosingTarget
		return c.renderTarget()
	}
	return c.stale(sess)
}

// --- text and photo input ---

func (c *Controller) handleText(ctx context.Context, sess *session.Session, text string) Result {
	// The attach flow gets first claim on free text while it is
	// waiting for some.
	switch sess.Attach.Step {
	case session.AttachNamingButton:
		return c.acceptLabel(sess, true, text)
	case session.AttachEnteringValue:
		return c.acceptValue(sess, true, text)
	case session.AttachAwaitingLink:
		return c.acceptLink(ctx, sess, text)
	}

	switch sess.Step {
	case session.StepWritingText:
		if text == "" {
			return oneRender(msgAskText, [][]Button{cancelRow(false)})
		}
		sess.Post.Text = text
		sess.Step = session.StepChoosingImage
		return c.renderImageChoice()
	case session.StepNamingButton:
		return c.acceptLabel(sess, false, text)
	case session.StepEnteringValue:
		return c.acceptValue(sess, false, text)
	case session.StepChoosingTarget:
		return c.acceptTarget(sess, text)
	case session.StepIdle:
		return homeMenu()
	}
	return c.renderCurrent(sess)
}

func (c *Controller) handlePhoto(sess *session.Session, photoID string) Result {
	if sess.Step != session.StepAwaitingImage {
		return c.renderCurrent(sess)
	}
	sess.Post.PhotoID = photoID
	sess.Step = session.StepChoosingImgPos
	return oneRender(msgAskImgPos, [][]Button{
		{
			{Label: "⬆ Above the text", Token: token(false, "imgpos", "top")},
			{Label: "⬇ Below the text", Token: token(false, "imgpos", "bottom")},
		},
		cancelRow(false),
	})
}

func (c *Controller) acceptLabel(sess *session.Session, attach bool, text string) Result {
	if text == "" {
		return oneRender(msgAskLabel, backCancelRows(attach))
	}
	v := view(sess, attach)
	*v.label = text
	if attach {
		sess.Attach.Step = session.AttachChoosingAction
	} else {
		sess.Step = session.StepChoosingAction
	}
	return oneRender(msgAskAction, [][]Button{
		{
			{Label: "🔗 Open a link", Token: token(attach, "act", "link")},
			{Label: "💬 Show a message", Token: token(attach, "act", "alert")},
		},
		{{Label: "⬅ Back", Token: token(attach, "back")}},
		cancelRow(attach),
	})
}

func (c *Controller) acceptValue(sess *session.Session, attach bool, text string) Result {
	v := view(sess, attach)
	if *v.kind == grid.ActionOpenLink && !validURL(text) {
		return oneRender(msgBadURL, backCancelRows(attach))
	}

	b := grid.Button{Label: *v.label, Kind: *v.kind, Value: text}
	if v.cur.IsNew {
		*v.g = grid.InsertCell(*v.g, v.cur.Row, v.cur.Col, b)
	} else {
		*v.g = grid.ReplaceCell(*v.g, v.cur.Row, v.cur.Col, b)
	}
	*v.cur = session.Cursor{}
	*v.label = ""
	*v.kind = ""

	if attach {
		sess.Attach.Step = session.AttachEditingButtons
	} else {
		sess.Step = session.StepEditingButtons
	}
	return c.renderEditor(sess, attach)
}

func (c *Controller) acceptTarget(sess *session.Session, text string) Result {
	if !validTarget(text) {
		return oneRender(msgBadTarget, [][]Button{
			{{Label: "📍 This chat", Token: token(false, "target", "self")}},
			{{Label: "⬅ Back", Token: token(false, "back")}},
			cancelRow(false),
		})
	}
	sess.TargetChat = text
	sess.Step = session.StepConfirming
	return c.renderConfirm(sess)
}

// acceptLink resolves a message link and replaces the keyboard of the
// linked message. Unresolvable input stays local; nothing is called on
// the transport until the link parses.
func (c *Controller) acceptLink(ctx context.Context, sess *session.Session, text string) Result {
	link, ok := msglink.Resolve(text)
	if !ok {
		return oneRender(msgBadLink, [][]Button{
			{{Label: "⬅ Back", Token: token(true, "back")}},
			cancelRow(true),
		})
	}

	keyboard, err := c.publishButtons(ctx, sess.Attach.Grid)
	if err != nil {
		logger.SVCFlow.Error("alert data allocation failed",
			slog.String("event", "flow.attach"),
			slog.Int64("user_id", sess.UserID),
			slog.String("err", err.Error()),
		)
		return oneRender(msgAttachFailed+msgTryLater, [][]Button{cancelRow(true)})
	}

	member, err := c.tr.CheckMembership(ctx, link)
	if err != nil {
		return oneRender(msgAttachFailed+faultMessage(err), [][]Button{cancelRow(true)})
	}
	if !member {
		return oneRender(msgNoRights, [][]Button{cancelRow(true)})
	}

	if err := c.tr.ReplaceMarkup(ctx, link, keyboard); err != nil {
		logger.SVCFlow.Warn("markup replacement failed",
			slog.String("event", "flow.attach"),
			slog.Int64("user_id", sess.UserID),
			slog.Int64("target_chat", link.ChatID),
			slog.Int("message_id", link.MessageID),
			slog.String("err", err.Error()),
		)
		return oneRender(msgAttachFailed+faultMessage(err), [][]Button{cancelRow(true)})
	}

	logger.SVCFlow.Info("buttons attached",
		slog.String("event", "flow.attach"),
		slog.Int64("user_id", sess.UserID),
		slog.Int64("target_chat", link.ChatID),
		slog.Int("message_id", link.MessageID),
	)
	sess.ResetAttach()
	return plainRender(msgAttached)
}

// --- publishing ---

func (c *Controller) publish(ctx context.Context, sess *session.Session) Result {
	keyboard, err := c.publishButtons(ctx, sess.Post.Grid)
	if err != nil {
		logger.SVCFlow.Error("alert data allocation failed",
			slog.String("event", "flow.publish"),
			slog.Int64("user_id", sess.UserID),
			slog.String("err", err.Error()),
		)
		r := c.renderConfirm(sess)
		r.Answer = msgTryLater
		return r
	}

	msgID, err := c.tr.Publish(ctx, sess.TargetChat, sess.Post, keyboard)
	if err != nil {
		logger.SVCFlow.Warn("publish failed",
			slog.String("event", "flow.publish"),
			slog.Int64("user_id", sess.UserID),
			slog.String("target_chat", sess.TargetChat),
			slog.String("err", err.Error()),
		)
		r := c.renderConfirm(sess)
		r.Renders[0].Text = msgSendFailed + faultMessage(err)
		r.Renders[0].Markdown = false
		return r
	}

	logger.SVCFlow.Info("post published",
		slog.String("event", "flow.publish"),
		slog.Int64("user_id", sess.UserID),
		slog.String("target_chat", sess.TargetChat),
		slog.Int("message_id", msgID),
	)
	sess.ResetCompose()
	return plainRender(msgSent)
}

// publishButtons turns the editing grid into the keyboard that ships
// with the post: link buttons open their URL, alert buttons carry
// callback data resolved back to their text on tap.
func (c *Controller) publishButtons(ctx context.Context, g grid.Grid) ([][]Button, error) {
	out := make([][]Button, 0, len(g))
	for _, row := range g {
		line := make([]Button, 0, len(row))
		for _, b := range row {
			switch b.Kind {
			case grid.ActionOpenLink:
				line = append(line, Button{Label: b.Label, URL: b.Value})
			default:
				data, err := c.notices.AlertData(ctx, b.Value)
				if err != nil {
					return nil, err
				}
				line = append(line, Button{Label: b.Label, Token: data})
			}
		}
		out = append(out, line)
	}
	return out, nil
}

// --- renders ---

func (c *Controller) renderEditor(sess *session.Session, attach bool) Result {
	g := sess.Post.Grid
	if attach {
		g = sess.Attach.Grid
	}
	return oneRender(msgEditGrid, editorButtons(attach, g))
}

func (c *Controller) renderImageChoice() Result {
	return oneRender(msgAskImage, [][]Button{
		{
			{Label: "🖼 Yes", Token: token(false, "img", "yes")},
			{Label: "➡ No", Token: token(false, "img", "no")},
		},
		cancelRow(false),
	})
}

func (c *Controller) renderReview(sess *session.Session) Result {
	var b strings.Builder
	b.WriteString("Here is your post:\n\n")
	if sess.Post.PhotoID != "" && sess.Post.PhotoTop {
		b.WriteString("🖼 [image]\n")
	}
	if sess.Post.Text != "" {
		b.WriteString(sess.Post.Text)
		b.WriteString("\n")
	}
	if sess.Post.PhotoID != "" && !sess.Post.PhotoTop {
		b.WriteString("🖼 [image]\n")
	}

	rows := previewButtons(sess.Post.Grid)
	rows = append(rows,
		[]Button{{Label: "✅ Looks good", Token: token(false, "review", "ok")}},
		[]Button{{Label: "⬅ Back", Token: token(false, "back")}},
		cancelRow(false),
	)
	return oneRender(b.String(), rows)
}

func (c *Controller) renderTarget() Result {
	return oneRender(msgAskTarget, [][]Button{
		{{Label: "📍 This chat", Token: token(false, "target", "self")}},
		{{Label: "⬅ Back", Token: token(false, "back")}},
		cancelRow(false),
	})
}

func (c *Controller) renderConfirm(sess *session.Session) Result {
	target, err := format.EscapeMarkdown(sess.TargetChat, format.MarkdownV2, "")
	if err != nil {
		target = sess.TargetChat
	}
	text := fmt.Sprintf("*%s*\nTarget: %s", msgConfirm, target)
	r := oneRender(text, [][]Button{
		{{Label: "🚀 Send", Token: token(false, "send")}},
		{{Label: "⬅ Back", Token: token(false, "back")}},
		cancelRow(false),
	})
	r.Renders[0].Markdown = true
	return r
}

// renderCurrent re-renders whatever the session is doing right now.
// Used after lost commit races and stale control taps.
func (c *Controller) renderCurrent(sess *session.Session) Result {
	if sess.InAttach() {
		switch sess.Attach.Step {
		case session.AttachEditingButtons:
			return c.renderEditor(sess, true)
		case session.AttachNamingButton:
			return oneRender(msgAskLabel, backCancelRows(true))
		case session.AttachChoosingAction:
			return oneRender(msgAskAction, backCancelRows(true))
		case session.AttachEnteringValue:
			prompt := msgAskURL
			if sess.Attach.PendingKind == grid.ActionShowAlert {
				prompt = msgAskAlert
			}
			return oneRender(prompt, backCancelRows(true))
		case session.AttachAwaitingLink:
			return oneRender(msgAskLink, [][]Button{cancelRow(true)})
		}
	}

	if !sess.InCompose() {
		return homeMenu()
	}

	switch sess.Step {
	case session.StepWritingText:
		return oneRender(msgAskText, [][]Button{cancelRow(false)})
	case session.StepChoosingImage:
		return c.renderImageChoice()
	case session.StepAwaitingImage:
		return oneRender(msgAskPhoto, [][]Button{cancelRow(false)})
	case session.StepChoosingImgPos:
		return oneRender(msgAskImgPos, [][]Button{cancelRow(false)})
	case session.StepEditingButtons:
		return c.renderEditor(sess, false)
	case session.StepNamingButton:
		return oneRender(msgAskLabel, backCancelRows(false))
	case session.StepChoosingAction:
		return oneRender(msgAskAction, backCancelRows(false))
	case session.StepEnteringValue:
		prompt := msgAskURL
		if sess.PendingKind == grid.ActionShowAlert {
			prompt = msgAskAlert
		}
		return oneRender(prompt, backCancelRows(false))
	case session.StepReviewing:
		return c.renderReview(sess)
	case session.StepChoosingTarget:
		return c.renderTarget()
	case session.StepConfirming:
		return c.renderConfirm(sess)
	}
	return homeMenu()
}

func (c *Controller) stale(sess *session.Session) Result {
	r := c.renderCurrent(sess)
	r.Answer = msgStaleControl
	return r
}

func (c *Controller) enterNaming(sess *session.Session, attach bool) Result {
	if attach {
		sess.Attach.Step = session.AttachNamingButton
	} else {
		sess.Step = session.StepNamingButton
	}
	return oneRender(msgAskLabel, backCancelRows(attach))
}

// --- validation ---

func validURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validTarget(s string) bool {
	if strings.HasPrefix(s, "@") && len(s) >= 6 {
		return true
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil && s != ""
}

func faultMessage(err error) string {
	var f *Fault
	if errors.As(err, &f) {
		switch f.Kind {
		case FaultPermission:
			return msgNoRights
		case FaultNotFound:
			return msgGoneTarget
		case FaultTransient:
			return msgTryLater
		}
		if f.Detail != "" {
			return f.Detail
		}
	}
	return msgTryLater
}
