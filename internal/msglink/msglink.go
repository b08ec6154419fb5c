// Package msglink resolves shared t.me message links into addressable
// (chat, message) coordinates. Resolution is a pure function of the
// input string; it never touches the network.
package msglink

import (
	"regexp"
	"strconv"
)

// Link addresses one message. Exactly one of Username and ChatID is
// set: public links resolve to a symbolic handle, private links to the
// platform's internal signed chat id.
type Link struct {
	Username  string
	ChatID    int64
	MessageID int
}

var (
	// Public form: scheme://host/<handle>/<messageId>. Handles are 5+
	// characters, start with a letter or underscore, alphanumeric or
	// underscore thereafter.
	publicRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://[^/]+/([a-zA-Z_][a-zA-Z0-9_]{4,})/(\d+)$`)

	// Private form: scheme://host/c/<numericChatFragment>/<messageId>.
	privateRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://[^/]+/c/(\d+)/(\d+)$`)
)

// Resolve parses s into a Link. The second return value reports whether
// either supported shape matched; no input produces an error.
func Resolve(s string) (Link, bool) {
	if m := privateRe.FindStringSubmatch(s); m != nil {
		// The fragment is the chat's local identifier as shared in
		// links. The internal id is the literal digit concatenation
		// "-100" + fragment parsed as a signed integer, not an
		// arithmetic transform.
		chatID, err := strconv.ParseInt("-100"+m[1], 10, 64)
		if err != nil {
			return Link{}, false
		}
		msgID, err := strconv.Atoi(m[2])
		if err != nil || msgID <= 0 {
			return Link{}, false
		}
		return Link{ChatID: chatID, MessageID: msgID}, true
	}

	if m := publicRe.FindStringSubmatch(s); m != nil {
		msgID, err := strconv.Atoi(m[2])
		if err != nil || msgID <= 0 {
			return Link{}, false
		}
		return Link{Username: m[1], MessageID: msgID}, true
	}

	return Link{}, false
}
