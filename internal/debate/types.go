// Package debate persists debates and runs the authoritative submission path.
//
// The protocol package decides what is legal; this package decides what is
// recorded. A debate's state is never edited directly: every accepted
// argument is appended to the debate's log together with the state the
// protocol engine derived for it, in one transaction.
//
// Layering:
// - types.go / errors.go: records and the error taxonomy callers map to codes
// - store.go: SQLite-backed Store (append-only argument log, CAS on state)
// - service.go: per-debate serialized read → transition → persist
// - observer.go: optional notifications after a commit
package debate

import (
	"fmt"

	"github.com/HendryAvila/agora/internal/protocol"
)

// --- Debate type enum ---

// Type categorizes what a debate is about. It does not affect the protocol.
type Type string

const (
	TypeDesign   Type = "design"
	TypeReview   Type = "review"
	TypeDecision Type = "decision"
	TypeFreeform Type = "freeform"
)

var validTypes = map[Type]bool{
	TypeDesign:   true,
	TypeReview:   true,
	TypeDecision: true,
	TypeFreeform: true,
}

// ValidateType returns an error if the type is not recognized.
func ValidateType(t Type) error {
	if !validTypes[t] {
		return fmt.Errorf("invalid debate type %q: must be one of: design, review, decision, freeform", t)
	}
	return nil
}

// --- Records ---

// Debate is the aggregate row. State always equals the fold of the
// debate's argument log through the protocol engine.
type Debate struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Type      Type           `json:"type"`
	State     protocol.State `json:"state"`
	LastSeq   int64          `json:"last_seq"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// Argument is one entry in a debate's append-only log.
type Argument struct {
	ID             string                `json:"id"`
	DebateID       string                `json:"debate_id"`
	ParentID       *string               `json:"parent_id,omitempty"`
	Type           protocol.ArgumentType `json:"type"`
	Role           protocol.Role         `json:"role"`
	Content        string                `json:"content"`
	Close          bool                  `json:"close,omitempty"`
	IdempotencyKey *string               `json:"idempotency_key,omitempty"`
	Seq            int64                 `json:"seq"`
	CreatedAt      string                `json:"created_at"`
}

// LogEntry projects the argument onto what the protocol engine reads.
func (a Argument) LogEntry() protocol.LogEntry {
	return protocol.LogEntry{Seq: a.Seq, Type: a.Type, Role: a.Role, Close: a.Close}
}

// --- Params ---

// CreateParams holds the input for opening a debate.
type CreateParams struct {
	Title  string `json:"title"`
	Type   Type   `json:"type,omitempty"`
	Motion string `json:"motion"`
}

// SubmitParams holds one argument submission.
type SubmitParams struct {
	DebateID       string `json:"debate_id"`
	Role           string `json:"role"`
	Type           string `json:"type"`
	Content        string `json:"content"`
	ParentID       string `json:"parent_id,omitempty"`
	Close          bool   `json:"close,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// ListOptions filters debate listings.
type ListOptions struct {
	State protocol.State `json:"state,omitempty"`
	Limit int            `json:"limit,omitempty"`
}

// AppendParams is a compare-and-swap append: the argument is recorded only
// if the debate is still in ExpectState at ExpectSeq.
type AppendParams struct {
	DebateID    string
	ExpectState protocol.State
	ExpectSeq   int64
	NextState   protocol.State
	Argument    Argument
}

// --- Results ---

// SubmitResult describes an accepted (or replayed duplicate) submission.
type SubmitResult struct {
	Debate    Debate         `json:"debate"`
	Argument  Argument       `json:"argument"`
	Previous  protocol.State `json:"previous_state"`
	Duplicate bool           `json:"duplicate,omitempty"`
}

// Status is a debate plus what each role may do next.
type Status struct {
	Debate  Debate                              `json:"debate"`
	Actions map[protocol.Role][]protocol.Action `json:"actions"`
}

// Verification compares the stored state with a replay of the log.
type Verification struct {
	DebateID   string         `json:"debate_id"`
	Stored     protocol.State `json:"stored_state"`
	Replayed   protocol.State `json:"replayed_state,omitempty"`
	Arguments  int            `json:"arguments"`
	Consistent bool           `json:"consistent"`
	Problem    string         `json:"problem,omitempty"`
}
