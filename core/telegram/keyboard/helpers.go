package keyboard

import tele "gopkg.in/telebot.v4"

// RawBtn is an inline button carrying raw callback data or a URL,
// bypassing telebot's unique-key encoding. Raw data keeps the full
// 64 bytes of callback_data available to the caller.
type RawBtn struct {
	Text string
	Data string
	URL  string
}

// RawInlineRows builds an inline keyboard from rows of RawBtn.
func RawInlineRows(rows ...[]RawBtn) *tele.ReplyMarkup {
	inline := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		r := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			r = append(r, tele.InlineButton{Text: b.Text, Data: b.Data, URL: b.URL})
		}
		inline = append(inline, r)
	}
	return &tele.ReplyMarkup{InlineKeyboard: inline}
}
