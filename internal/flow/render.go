package flow

import (
	"postbot/internal/grid"
)

// Button is one rendered inline button. Exactly one of Token and URL is
// set: Token round-trips through a callback, URL opens directly.
type Button struct {
	Label string
	Token string
	URL   string
}

// Render is one outbound render instruction: a text plus the controls
// to attach. ReplaceLast asks the renderer to edit the previous menu
// message in place when one is known. Markdown marks Text as
// MarkdownV2, with dynamic parts already escaped.
type Render struct {
	Text        string
	Rows        [][]Button
	ReplaceLast bool
	Markdown    bool
}

// Result is everything one inbound event produced. Answer, when set, is
// flashed as the non-blocking callback acknowledgement. MenuMessageID
// is the bot message a ReplaceLast render should edit, zero when none
// is known.
type Result struct {
	Renders       []Render
	Answer        string
	MenuMessageID int
}

func oneRender(text string, rows [][]Button) Result {
	return Result{Renders: []Render{{Text: text, Rows: rows, ReplaceLast: true}}}
}

// plainRender is a standalone confirmation: no keyboard, never edits
// the previous menu.
func plainRender(text string) Result {
	return Result{Renders: []Render{{Text: text}}}
}

// Control labels. The grid editor tiles these across the layout.
const (
	labelAddRowAbove = "➕⬆"
	labelAddRowBelow = "➕⬇"
	labelAddCol      = "➕"
	labelAddFirst    = "➕ Add a button"
	labelSpacer      = "·"
)

// editorButtons materializes the grid editor affordances for one flow.
func editorButtons(attach bool, g grid.Grid) [][]Button {
	rows := grid.Layout(g)
	out := make([][]Button, 0, len(rows)+1)
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		line := make([]Button, 0, len(row))
		for _, c := range row {
			line = append(line, controlButton(attach, c))
		}
		out = append(out, line)
	}

	var tail []Button
	if attach {
		tail = []Button{
			{Label: "✅ Done", Token: token(true, "done")},
			{Label: "❌ Cancel", Token: token(true, "cancel")},
		}
	} else {
		tail = []Button{
			{Label: "✅ Done", Token: token(false, "done")},
			{Label: "⏭ Skip", Token: token(false, "skip")},
			{Label: "❌ Cancel", Token: token(false, "cancel")},
		}
	}
	return append(out, tail)
}

func controlButton(attach bool, c grid.Control) Button {
	switch c.Kind {
	case grid.ControlAddFirst:
		return Button{Label: labelAddFirst, Token: token(attach, "colins", 0, 0)}
	case grid.ControlAddRowAbove:
		return Button{Label: labelAddRowAbove, Token: token(attach, "rowins", c.Row)}
	case grid.ControlAddRowBelow:
		return Button{Label: labelAddRowBelow, Token: token(attach, "rowins", c.Row)}
	case grid.ControlAddCol:
		return Button{Label: labelAddCol, Token: token(attach, "colins", c.Row, c.Col)}
	case grid.ControlCell:
		return Button{Label: c.Label, Token: token(attach, "cell", c.Row, c.Col)}
	default:
		return Button{Label: labelSpacer, Token: TokenNoop}
	}
}

// previewButtons renders the grid read-only for the review screen.
func previewButtons(g grid.Grid) [][]Button {
	rows := grid.Preview(g)
	out := make([][]Button, 0, len(rows))
	for _, row := range rows {
		line := make([]Button, 0, len(row))
		for _, c := range row {
			if c.Kind == grid.ControlSpacer {
				line = append(line, Button{Label: labelSpacer, Token: TokenNoop})
				continue
			}
			line = append(line, Button{Label: c.Label, Token: TokenNoop})
		}
		out = append(out, line)
	}
	return out
}

func cancelRow(attach bool) []Button {
	return []Button{{Label: "❌ Cancel", Token: token(attach, "cancel")}}
}

func backCancelRows(attach bool) [][]Button {
	return [][]Button{
		{{Label: "⬅ Back", Token: token(attach, "back")}},
		cancelRow(attach),
	}
}

func homeMenu() Result {
	return oneRender(msgHome, [][]Button{
		{{Label: "📝 New post", Token: "menu:new"}},
		{{Label: "🔗 Add buttons to a post", Token: "menu:attach"}},
	})
}

// User-visible texts.
const (
	msgHome = "What would you like to do?"

	msgAskText    = "Send me the text of your post."
	msgAskImage   = "Add an image to the post?"
	msgAskPhoto   = "Send me the image."
	msgAskImgPos  = "Where should the image go?"
	msgEditGrid   = "Add buttons to your post. Tap ➕ to insert a button, tap a button to edit it."
	msgAskLabel   = "Send me the button label."
	msgAskAction  = "What should the button do?"
	msgAskURL     = "Send me the URL the button opens."
	msgAskAlert   = "Send me the text the button shows."
	msgAskTarget  = "Where should the post go? Send a @channel handle or a chat id, or pick below."
	msgAskLink    = "Send me a link to the message (https://t.me/...)."
	msgCancelled  = "Cancelled."
	msgSent       = "Post sent."
	msgAttached   = "Buttons attached."
	msgConfirm    = "Send the post now?"

	msgNeedContent    = "The post needs some text or an image before it can be sent."
	msgNeedButtons    = "Add at least one button first."
	msgBadURL         = "That does not look like a URL. Send a link starting with http:// or https://."
	msgBadLink        = "That does not look like a message link. Send one like https://t.me/channel/123."
	msgBadTarget      = "Send a @handle or a numeric chat id."
	msgNoRights       = "I cannot edit that message. Make me an admin with the right to edit messages and try again."
	msgGoneTarget     = "That chat or message does not seem to exist anymore. Check the link and try again."
	msgTryLater       = "The messaging service is having trouble right now. Please try again in a moment."
	msgSendFailed     = "Could not deliver the post: "
	msgAttachFailed   = "Could not attach the buttons: "
	msgStaleControl   = "That button is out of date, here is the current layout."
	msgRaceLost       = "I was still processing your previous tap. Here is where we are now."
)
