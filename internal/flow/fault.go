package flow

import "fmt"

// FaultKind classifies a failed outbound operation.
type FaultKind int

const (
	// FaultUnknown covers unclassified transport failures.
	FaultUnknown FaultKind = iota
	// FaultPermission means the bot lacks rights on the target chat.
	FaultPermission
	// FaultNotFound means the target chat or message is gone.
	FaultNotFound
	// FaultTransient is rate limiting or a server-side hiccup.
	FaultTransient
	// FaultInvariant is an internal inconsistency, answered by
	// re-rendering current state.
	FaultInvariant
)

// Fault wraps a transport error with its classification and an
// already-sanitized detail string safe to show the user.
type Fault struct {
	Kind   FaultKind
	Detail string
	Err    error
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("flow fault %d: %v", f.Kind, f.Err)
	}
	return fmt.Sprintf("flow fault %d: %s", f.Kind, f.Detail)
}

// Unwrap exposes the underlying error.
func (f *Fault) Unwrap() error { return f.Err }
