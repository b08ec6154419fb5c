// Package bot connects the conversational flow to Telegram: it
// normalizes inbound updates into flow events, executes the returned
// render instructions, and implements the outbound transport.
package bot

import (
	"context"
	"strings"

	"postbot/core/logger"
	coretelegram "postbot/core/telegram"
	"postbot/core/telegram/commands"
	tghelpers "postbot/core/telegram/helpers"
	"postbot/internal/flow"
	"postbot/internal/notice"
	"postbot/internal/session"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Service owns the flow controller and its Telegram-facing handlers.
type Service struct {
	ctrl      *flow.Controller
	notices   *notice.Service
	transport *Transport
}

// NewService wires the flow controller over its stores.
func NewService(sessions *session.Store, notices *notice.Service) *Service {
	tr := NewTransport()
	return &Service{
		ctrl:      flow.NewController(sessions, notices, tr),
		notices:   notices,
		transport: tr,
	}
}

// Register binds commands and callback keys to the registry.
func (s *Service) Register(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     s.onStart,
		Description: "Open the main menu",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     s.onCancel,
		Description: "Cancel the current operation",
	})

	for _, key := range []string{"menu", "noop", "c", "a"} {
		_ = reg.RegisterCallback(key, s.onToken)
	}
	_ = reg.RegisterCallback("alr", s.onAlert)
	_ = reg.RegisterCallback("ntc", s.onAlert)
}

func (s *Service) onStart(c tele.Context) error {
	return s.handle(c, flow.Event{Kind: flow.EventStart})
}

func (s *Service) onCancel(c tele.Context) error {
	return s.handle(c, flow.Event{Kind: flow.EventCancel})
}

// HandleText feeds free-form text into the active flow.
func (s *Service) HandleText(c tele.Context) error {
	return s.handle(c, flow.Event{Kind: flow.EventText, Text: c.Text()})
}

// HandlePhoto feeds an incoming photo into the active flow, keeping
// the largest size Telegram offers.
func (s *Service) HandlePhoto(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return nil
	}
	return s.handle(c, flow.Event{Kind: flow.EventPhoto, PhotoID: msg.Photo.FileID})
}

func (s *Service) onToken(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	data := strings.TrimPrefix(cb.Data, "\f")
	return s.handle(c, flow.Event{Kind: flow.EventToken, Token: data})
}

// onAlert answers an alert-button tap with its stored text. The text
// either rides inside the callback data or is fetched by reference.
func (s *Service) onAlert(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	data := strings.TrimPrefix(cb.Data, "\f")
	if !notice.IsAlertData(data) {
		return c.Respond(&tele.CallbackResponse{Text: notice.ExpiredText})
	}
	ctx := tghelpers.BuildContext(c)
	text := s.notices.Resolve(ctx, data)
	return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
}

func (s *Service) handle(c tele.Context, ev flow.Event) error {
	b, _ := c.Bot().(*tele.Bot)
	s.transport.Bind(b)
	ctx := tghelpers.BuildContext(c)

	sender := c.Sender()
	chat := c.Chat()
	if sender == nil || chat == nil {
		return nil
	}

	res, err := s.ctrl.Handle(ctx, sender.ID, chat.ID, ev)
	if err != nil {
		if c.Callback() != nil {
			_ = c.Respond(&tele.CallbackResponse{Text: "Something went wrong, try again."})
		}
		return err
	}

	if c.Callback() != nil {
		_ = c.Respond(&tele.CallbackResponse{Text: res.Answer})
	}

	for _, r := range res.Renders {
		s.render(ctx, c, res.MenuMessageID, r)
	}
	return nil
}

// render executes one render instruction. Callback taps edit the menu
// message in place when it is the one being replaced; everything else
// posts a fresh menu and remembers its id.
func (s *Service) render(ctx context.Context, c tele.Context, menuID int, r flow.Render) {
	markup := markupFor(r.Rows)
	opts := &tele.SendOptions{ReplyMarkup: markup}
	if r.Markdown {
		opts.ParseMode = tele.ModeMarkdownV2
	}

	if r.ReplaceLast && menuID != 0 {
		if cb := c.Callback(); cb != nil && cb.Message != nil && cb.Message.ID == menuID {
			if err := c.Edit(r.Text, opts); err == nil || strings.Contains(err.Error(), "not modified") {
				return
			}
		}
	}

	if markup == nil && !r.ReplaceLast {
		// Plain confirmations go through the async sender.
		_ = tghelpers.SendText(c, r.Text)
		return
	}

	msg, err := c.Bot().Send(c.Recipient(), r.Text, opts)
	if err != nil {
		logger.TG.Warn("menu delivery failed",
			slog.String("event", "tg.render"),
			slog.Int64("user_id", c.Sender().ID),
			slog.String("err", err.Error()),
		)
		return
	}
	if err := s.ctrl.RememberMenuMessage(ctx, c.Sender().ID, msg.ID); err != nil {
		logger.TG.Warn("menu id not persisted",
			slog.String("event", "tg.render"),
			slog.Int64("user_id", c.Sender().ID),
			slog.String("err", err.Error()),
		)
	}
}
