package debate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/HendryAvila/agora/internal/protocol"
)

// Code is a machine-readable error code for callers that surface errors
// to users (MCP tools, CLI).
type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeNotFound         Code = "NOT_FOUND"
	CodeValidation       Code = "VALIDATION_FAILED"
	CodeInvalidEvent     Code = "INVALID_EVENT"
	CodeActionNotAllowed Code = "ACTION_NOT_ALLOWED"
	CodeConflict         Code = "CONFLICT"
)

var (
	// ErrDebateNotFound is returned when no debate has the given id.
	ErrDebateNotFound = errors.New("debate not found")
	// ErrArgumentNotFound is returned when an argument id does not exist in the debate.
	ErrArgumentNotFound = errors.New("argument not found")
	// ErrConflict is returned when the debate moved between read and write.
	ErrConflict = errors.New("debate changed concurrently")
)

// ValidationError reports malformed input before the protocol is consulted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// InvalidEventError reports an argument type the role may never author.
// It is independent of the debate's state.
type InvalidEventError struct {
	Type protocol.ArgumentType
	Role protocol.Role
}

func (e *InvalidEventError) Error() string {
	if e.Type == protocol.ArgumentMotion {
		return "a MOTION only opens a debate and cannot be submitted to one"
	}
	return fmt.Sprintf("%s cannot submit %s arguments", e.Role, e.Type)
}

// ActionNotAllowedError reports a well-formed event the current state rejects.
// Allowed lists what each role could do instead.
type ActionNotAllowedError struct {
	DebateID  string
	State     protocol.State
	Attempted protocol.Event
	Allowed   map[protocol.Role][]protocol.Action
}

func (e *ActionNotAllowedError) Error() string {
	return fmt.Sprintf("%s is not allowed in state %s (allowed: %s)", e.Attempted, e.State, FormatAllowed(e.Allowed))
}

// FormatAllowed renders a role → actions map in role order, skipping roles
// with nothing to do. Returns "none" when no role can act.
func FormatAllowed(allowed map[protocol.Role][]protocol.Action) string {
	roles := make([]protocol.Role, 0, len(allowed))
	for r := range allowed {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roleOrder(roles[i]) < roleOrder(roles[j]) })

	var parts []string
	for _, r := range roles {
		acts := allowed[r]
		if len(acts) == 0 {
			continue
		}
		names := make([]string, len(acts))
		for i, a := range acts {
			names[i] = string(a)
		}
		parts = append(parts, fmt.Sprintf("%s: %s", r, strings.Join(names, ", ")))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "; ")
}

func roleOrder(r protocol.Role) int {
	for i, known := range protocol.Roles {
		if known == r {
			return i
		}
	}
	return len(protocol.Roles)
}

// CodeOf classifies err for presentation.
func CodeOf(err error) Code {
	var (
		ve *ValidationError
		ie *InvalidEventError
		ae *ActionNotAllowedError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ae):
		return CodeActionNotAllowed
	case errors.As(err, &ie):
		return CodeInvalidEvent
	case errors.As(err, &ve):
		return CodeValidation
	case errors.Is(err, ErrDebateNotFound), errors.Is(err, ErrArgumentNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict):
		return CodeConflict
	default:
		return CodeUnknown
	}
}

// IsUserError reports whether err is something the submitter can correct,
// as opposed to an infrastructure failure.
func IsUserError(err error) bool {
	switch CodeOf(err) {
	case CodeNotFound, CodeValidation, CodeInvalidEvent, CodeActionNotAllowed, CodeConflict:
		return true
	}
	return false
}
