// Package session defines the per-user conversational state and its
// persistence over the expiring key-value store.
package session

import (
	"postbot/internal/grid"
)

// Step is the position of the compose flow.
type Step string

// Compose flow steps.
const (
	StepIdle            Step = "idle"
	StepWritingText     Step = "writing_text"
	StepChoosingImage   Step = "choosing_image"
	StepAwaitingImage   Step = "awaiting_image"
	StepChoosingImgPos  Step = "choosing_image_position"
	StepEditingButtons  Step = "editing_buttons"
	StepNamingButton    Step = "naming_button"
	StepChoosingAction  Step = "choosing_action"
	StepEnteringValue   Step = "entering_value"
	StepReviewing       Step = "reviewing"
	StepChoosingTarget  Step = "choosing_target"
	StepConfirming      Step = "confirming"
)

// AttachStep is the position of the attach-buttons flow.
type AttachStep string

// Attach flow steps.
const (
	AttachIdle           AttachStep = "idle"
	AttachEditingButtons AttachStep = "editing_buttons"
	AttachNamingButton   AttachStep = "naming_button"
	AttachChoosingAction AttachStep = "choosing_action"
	AttachEnteringValue  AttachStep = "entering_value"
	AttachAwaitingLink   AttachStep = "awaiting_link"
)

// Cursor marks the grid cell a button edit is aimed at. IsNew
// distinguishes an insertion in progress from editing an existing cell.
type Cursor struct {
	Row   int  `json:"row"`
	Col   int  `json:"col"`
	IsNew bool `json:"is_new"`
}

// Post is the message being composed.
type Post struct {
	Text     string    `json:"text"`
	PhotoID  string    `json:"photo_id,omitempty"`
	PhotoTop bool      `json:"photo_top,omitempty"`
	Grid     grid.Grid `json:"grid,omitempty"`
}

// Empty reports whether the post has neither text nor an image.
func (p Post) Empty() bool {
	return p.Text == "" && p.PhotoID == ""
}

// Attach is the state of the attach-buttons flow. It owns its grid and
// edit state; nothing here is shared with the compose flow.
type Attach struct {
	Step         AttachStep      `json:"step"`
	Grid         grid.Grid       `json:"grid,omitempty"`
	Cursor       Cursor          `json:"cursor"`
	PendingLabel string          `json:"pending_label,omitempty"`
	PendingKind  grid.ActionKind `json:"pending_kind,omitempty"`
}

// Session is the whole conversational state of one user. It is loaded
// once when an inbound event arrives, mutated exactly once, and
// committed once when handling finishes.
type Session struct {
	UserID int64 `json:"-"`
	// Revision is the storage revision the session was read at; commits
	// are rejected when it went stale. Zero for a fresh session.
	Revision int64 `json:"-"`

	Step         Step            `json:"step"`
	Post         Post            `json:"post"`
	Cursor       Cursor          `json:"cursor"`
	PendingLabel string          `json:"pending_label,omitempty"`
	PendingKind  grid.ActionKind `json:"pending_kind,omitempty"`
	TargetChat   string          `json:"target_chat,omitempty"`

	Attach Attach `json:"attach"`

	// LastMessageID is the bot's most recent menu message, edited in
	// place on the next render when possible.
	LastMessageID int `json:"last_message_id,omitempty"`
}

// New returns a fresh idle session for the user.
func New(userID int64) *Session {
	return &Session{
		UserID: userID,
		Step:   StepIdle,
		Attach: Attach{Step: AttachIdle},
	}
}

// ResetCompose discards all compose-flow state.
func (s *Session) ResetCompose() {
	s.Step = StepIdle
	s.Post = Post{}
	s.Cursor = Cursor{}
	s.PendingLabel = ""
	s.PendingKind = ""
	s.TargetChat = ""
}

// ResetAttach discards all attach-flow state.
func (s *Session) ResetAttach() {
	s.Attach = Attach{Step: AttachIdle}
}

// InCompose reports whether the compose flow is active.
func (s *Session) InCompose() bool {
	return s.Step != StepIdle
}

// InAttach reports whether the attach flow is active.
func (s *Session) InAttach() bool {
	return s.Attach.Step != AttachIdle
}
