package flow

import (
	"testing"

	"postbot/internal/grid"
)

func TestParseCommandVocabulary(t *testing.T) {
	cases := []struct {
		raw  string
		want Command
	}{
		{"noop", Command{Kind: CmdNoop}},
		{"menu:new", Command{Kind: CmdMenuNew}},
		{"menu:attach", Command{Kind: CmdMenuAttach}},
		{"c:rowins:2", Command{Kind: CmdRowInsert, Row: 2}},
		{"a:rowins:0", Command{Kind: CmdRowInsert, Attach: true}},
		{"c:colins:1:3", Command{Kind: CmdColInsert, Row: 1, Col: 3}},
		{"a:cell:0:1", Command{Kind: CmdCellTap, Attach: true, Col: 1}},
		{"c:edit:2:0", Command{Kind: CmdCellEdit, Row: 2}},
		{"a:del:1:1", Command{Kind: CmdCellDelete, Attach: true, Row: 1, Col: 1}},
		{"c:done", Command{Kind: CmdGridDone}},
		{"c:skip", Command{Kind: CmdGridSkip}},
		{"a:cancel", Command{Kind: CmdCancel, Attach: true}},
		{"c:back", Command{Kind: CmdBack}},
		{"c:act:link", Command{Kind: CmdActionChoice, Action: grid.ActionOpenLink}},
		{"a:act:alert", Command{Kind: CmdActionChoice, Attach: true, Action: grid.ActionShowAlert}},
		{"c:img:yes", Command{Kind: CmdImageChoice, Choice: "yes"}},
		{"c:imgpos:bottom", Command{Kind: CmdImagePosition, Choice: "bottom"}},
		{"c:review:ok", Command{Kind: CmdReviewOK}},
		{"c:target:self", Command{Kind: CmdTargetSelf}},
		{"c:send", Command{Kind: CmdConfirmSend}},
	}
	for _, tc := range cases {
		if got := ParseCommand(tc.raw); got != tc.want {
			t.Fatalf("ParseCommand(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestParseCommandRejectsMalformed(t *testing.T) {
	rejects := []string{
		"",
		"menu:delete",
		"x:done",
		"c:rowins",
		"c:rowins:-1",
		"c:rowins:one",
		"c:colins:1",
		"c:colins:1:-2",
		"c:cell:0",
		"c:act:launch",
		"a:img:yes",
		"a:imgpos:top",
		"a:review:ok",
		"a:target:self",
		"a:send",
		"c:img:maybe",
		"c:explode:1:2",
	}
	for _, raw := range rejects {
		if got := ParseCommand(raw); got.Kind != CmdUnknown {
			t.Fatalf("ParseCommand(%q) = %+v, want CmdUnknown", raw, got)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := []string{
		token(false, "colins", 0, 0),
		token(true, "rowins", 3),
		token(false, "cell", 1, 2),
		token(true, "done"),
		token(false, "back"),
	}
	for _, raw := range tokens {
		if got := ParseCommand(raw); got.Kind == CmdUnknown {
			t.Fatalf("built token %q does not parse", raw)
		}
	}
}
