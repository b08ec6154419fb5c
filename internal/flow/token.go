package flow

import (
	"fmt"
	"strconv"
	"strings"

	"postbot/internal/grid"
)

// CommandKind enumerates the closed vocabulary of control tokens.
// Inbound tokens are parsed into a Command before any branching so the
// dispatch is over variants, never over substrings.
type CommandKind int

const (
	// CmdUnknown is any token outside the vocabulary.
	CmdUnknown CommandKind = iota
	// CmdNoop is a spacer tap; answered and ignored.
	CmdNoop
	// CmdMenuNew starts the compose flow.
	CmdMenuNew
	// CmdMenuAttach starts the attach flow.
	CmdMenuAttach
	// CmdRowInsert inserts an empty row at Row and begins its first button.
	CmdRowInsert
	// CmdColInsert begins inserting a button at (Row, Col).
	CmdColInsert
	// CmdCellTap opens the edit menu for the cell at (Row, Col).
	CmdCellTap
	// CmdCellEdit begins editing the existing cell at (Row, Col).
	CmdCellEdit
	// CmdCellDelete removes the cell at (Row, Col).
	CmdCellDelete
	// CmdGridDone finishes button editing.
	CmdGridDone
	// CmdGridSkip finishes compose button editing with zero buttons.
	CmdGridSkip
	// CmdCancel cancels the scoped flow.
	CmdCancel
	// CmdBack returns to the grid editor, undoing an in-progress insertion.
	CmdBack
	// CmdActionChoice picks what the pending button does.
	CmdActionChoice
	// CmdImageChoice answers the add-an-image question.
	CmdImageChoice
	// CmdImagePosition places the image above or below the text.
	CmdImagePosition
	// CmdReviewOK accepts the review screen.
	CmdReviewOK
	// CmdTargetSelf targets the current chat.
	CmdTargetSelf
	// CmdConfirmSend publishes the composed post.
	CmdConfirmSend
)

// Command is a parsed control token.
type Command struct {
	Kind   CommandKind
	Attach bool
	Row    int
	Col    int
	Action grid.ActionKind
	Choice string
}

const (
	scopeCompose = "c"
	scopeAttach  = "a"
)

// TokenNoop is the spacer token.
const TokenNoop = "noop"

// ParseCommand maps a raw control token onto the closed vocabulary.
// Anything that does not parse yields CmdUnknown.
func ParseCommand(raw string) Command {
	switch raw {
	case TokenNoop:
		return Command{Kind: CmdNoop}
	case "menu:new":
		return Command{Kind: CmdMenuNew}
	case "menu:attach":
		return Command{Kind: CmdMenuAttach}
	}

	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return Command{}
	}

	var attach bool
	switch parts[0] {
	case scopeCompose:
	case scopeAttach:
		attach = true
	default:
		return Command{}
	}
	cmd := Command{Attach: attach}

	switch parts[1] {
	case "rowins":
		if len(parts) != 3 {
			return Command{}
		}
		row, err := strconv.Atoi(parts[2])
		if err != nil || row < 0 {
			return Command{}
		}
		cmd.Kind, cmd.Row = CmdRowInsert, row
	case "colins", "cell", "edit", "del":
		if len(parts) != 4 {
			return Command{}
		}
		row, err1 := strconv.Atoi(parts[2])
		col, err2 := strconv.Atoi(parts[3])
		if err1 != nil || err2 != nil || row < 0 || col < 0 {
			return Command{}
		}
		cmd.Row, cmd.Col = row, col
		switch parts[1] {
		case "colins":
			cmd.Kind = CmdColInsert
		case "cell":
			cmd.Kind = CmdCellTap
		case "edit":
			cmd.Kind = CmdCellEdit
		case "del":
			cmd.Kind = CmdCellDelete
		}
	case "done":
		cmd.Kind = CmdGridDone
	case "skip":
		cmd.Kind = CmdGridSkip
	case "cancel":
		cmd.Kind = CmdCancel
	case "back":
		cmd.Kind = CmdBack
	case "act":
		if len(parts) != 3 {
			return Command{}
		}
		switch parts[2] {
		case "link":
			cmd.Kind, cmd.Action = CmdActionChoice, grid.ActionOpenLink
		case "alert":
			cmd.Kind, cmd.Action = CmdActionChoice, grid.ActionShowAlert
		default:
			return Command{}
		}
	case "img":
		if attach || len(parts) != 3 || (parts[2] != "yes" && parts[2] != "no") {
			return Command{}
		}
		cmd.Kind, cmd.Choice = CmdImageChoice, parts[2]
	case "imgpos":
		if attach || len(parts) != 3 || (parts[2] != "top" && parts[2] != "bottom") {
			return Command{}
		}
		cmd.Kind, cmd.Choice = CmdImagePosition, parts[2]
	case "review":
		if attach || len(parts) != 3 || parts[2] != "ok" {
			return Command{}
		}
		cmd.Kind = CmdReviewOK
	case "target":
		if attach || len(parts) != 3 || parts[2] != "self" {
			return Command{}
		}
		cmd.Kind = CmdTargetSelf
	case "send":
		if attach {
			return Command{}
		}
		cmd.Kind = CmdConfirmSend
	default:
		return Command{}
	}
	return cmd
}

func scope(attach bool) string {
	if attach {
		return scopeAttach
	}
	return scopeCompose
}

func token(attach bool, parts ...any) string {
	b := strings.Builder{}
	b.WriteString(scope(attach))
	for _, p := range parts {
		b.WriteString(":")
		b.WriteString(fmt.Sprint(p))
	}
	return b.String()
}
