package keyboard

import "testing"

func TestRawInlineRowsKeepsDataVerbatim(t *testing.T) {
	markup := RawInlineRows(
		[]RawBtn{{Text: "Edit", Data: "c:cell:0:1"}, {Text: "Open", URL: "https://example.com"}},
		[]RawBtn{{Text: "Done", Data: "c:done"}},
	)

	kb := markup.InlineKeyboard
	if len(kb) != 2 || len(kb[0]) != 2 || len(kb[1]) != 1 {
		t.Fatalf("unexpected keyboard shape: %v", kb)
	}
	if kb[0][0].Data != "c:cell:0:1" {
		t.Errorf("callback data rewritten: %q", kb[0][0].Data)
	}
	if kb[0][1].URL != "https://example.com" || kb[0][1].Data != "" {
		t.Errorf("url button mangled: %+v", kb[0][1])
	}
	if kb[1][0].Text != "Done" {
		t.Errorf("label rewritten: %q", kb[1][0].Text)
	}
}

func TestRawInlineRowsEmpty(t *testing.T) {
	markup := RawInlineRows()
	if len(markup.InlineKeyboard) != 0 {
		t.Fatalf("expected empty keyboard, got %v", markup.InlineKeyboard)
	}
}
