package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"

	"postbot/core/logger"
	"postbot/core/telegram/keyboard"
	"postbot/core/telegram/netutil"
	"postbot/internal/flow"
	"postbot/internal/msglink"
	"postbot/internal/session"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Transport performs the outbound Telegram calls the flow requests.
// The bot instance is bound lazily because it only exists once the
// runtime is up.
type Transport struct {
	bot atomic.Pointer[tele.Bot]
}

// NewTransport returns an unbound transport.
func NewTransport() *Transport {
	return &Transport{}
}

// Bind attaches the live bot instance.
func (t *Transport) Bind(b *tele.Bot) {
	if b != nil {
		t.bot.Store(b)
	}
}

func (t *Transport) instance() (*tele.Bot, error) {
	b := t.bot.Load()
	if b == nil {
		return nil, &flow.Fault{Kind: flow.FaultInvariant, Detail: "bot not started"}
	}
	return b, nil
}

// chatRef addresses a chat by @handle; Telegram accepts it wherever a
// chat_id goes.
type chatRef string

func (r chatRef) Recipient() string { return string(r) }

func recipientFor(target string) tele.Recipient {
	if id, err := strconv.ParseInt(target, 10, 64); err == nil {
		return tele.ChatID(id)
	}
	if !strings.HasPrefix(target, "@") {
		target = "@" + target
	}
	return chatRef(target)
}

// Publish delivers a finished post. A post with the image placed below
// the text goes out as two messages, with the keyboard on the text.
func (t *Transport) Publish(ctx context.Context, target string, post session.Post, kb [][]flow.Button) (int, error) {
	b, err := t.instance()
	if err != nil {
		return 0, err
	}
	to := recipientFor(target)
	markup := markupFor(kb)

	var msg *tele.Message
	if post.PhotoID != "" && (post.PhotoTop || post.Text == "") {
		photo := &tele.Photo{File: tele.File{FileID: post.PhotoID}, Caption: post.Text}
		msg, err = send(b, to, photo, markup)
	} else {
		msg, err = send(b, to, post.Text, markup)
		if err == nil && post.PhotoID != "" {
			if _, perr := b.Send(to, &tele.Photo{File: tele.File{FileID: post.PhotoID}}); perr != nil {
				logger.TG.Warn("trailing image delivery failed",
					slog.String("event", "tg.publish"),
					slog.String("target_chat", target),
					slog.String("err", perr.Error()),
				)
			}
		}
	}
	if err != nil {
		return 0, classify(err)
	}
	return msg.ID, nil
}

func send(b *tele.Bot, to tele.Recipient, what interface{}, markup *tele.ReplyMarkup) (*tele.Message, error) {
	if markup != nil {
		return b.Send(to, what, markup)
	}
	return b.Send(to, what)
}

// ReplaceMarkup swaps the inline keyboard on the linked message.
func (t *Transport) ReplaceMarkup(ctx context.Context, link msglink.Link, kb [][]flow.Button) error {
	b, err := t.instance()
	if err != nil {
		return err
	}
	chat, err := t.resolveChat(b, link)
	if err != nil {
		return err
	}
	editable := &tele.StoredMessage{
		MessageID: strconv.Itoa(link.MessageID),
		ChatID:    chat.ID,
	}
	if _, err := b.EditReplyMarkup(editable, markupFor(kb)); err != nil {
		return classify(err)
	}
	return nil
}

// CheckMembership reports whether the bot can edit messages in the
// linked chat, which requires an admin seat there.
func (t *Transport) CheckMembership(ctx context.Context, link msglink.Link) (bool, error) {
	b, err := t.instance()
	if err != nil {
		return false, err
	}
	chat, err := t.resolveChat(b, link)
	if err != nil {
		return false, err
	}
	member, err := b.ChatMemberOf(chat, b.Me)
	if err != nil {
		return false, classify(err)
	}
	switch member.Role {
	case tele.Creator:
		return true, nil
	case tele.Administrator:
		return member.Rights.CanEditMessages, nil
	}
	return false, nil
}

func (t *Transport) resolveChat(b *tele.Bot, link msglink.Link) (*tele.Chat, error) {
	var (
		chat *tele.Chat
		err  error
	)
	if link.Username != "" {
		chat, err = b.ChatByUsername("@" + link.Username)
	} else {
		chat, err = b.ChatByID(link.ChatID)
	}
	if err != nil {
		return nil, classify(err)
	}
	return chat, nil
}

func markupFor(rows [][]flow.Button) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	out := make([][]keyboard.RawBtn, 0, len(rows))
	for _, row := range rows {
		line := make([]keyboard.RawBtn, 0, len(row))
		for _, b := range row {
			line = append(line, keyboard.RawBtn{Text: b.Label, Data: b.Token, URL: b.URL})
		}
		out = append(out, line)
	}
	return keyboard.RawInlineRows(out...)
}

// classify maps a Telegram API error onto the flow fault taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var flood *tele.FloodError
	if errors.As(err, &flood) || netutil.ShouldRetry(err) {
		return &flow.Fault{Kind: flow.FaultTransient, Err: err}
	}

	var tgErr *tele.Error
	if errors.As(err, &tgErr) {
		desc := strings.ToLower(tgErr.Description)
		switch {
		case strings.Contains(desc, "not found"):
			return &flow.Fault{Kind: flow.FaultNotFound, Err: err}
		case strings.Contains(desc, "rights"),
			strings.Contains(desc, "forbidden"),
			strings.Contains(desc, "kicked"),
			strings.Contains(desc, "can't be edited"),
			strings.Contains(desc, "blocked"):
			return &flow.Fault{Kind: flow.FaultPermission, Err: err}
		}
		return &flow.Fault{
			Kind:   flow.FaultUnknown,
			Detail: logger.SanitizeLimit(tgErr.Description, 128),
			Err:    err,
		}
	}

	return &flow.Fault{Kind: flow.FaultUnknown, Err: err}
}
