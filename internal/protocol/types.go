// Package protocol implements the debate state machine.
//
// A debate moves through a fixed set of states as the proposer, the
// opponent and the arbitrator submit arguments. This package owns the
// transition table and the queries derived from it. It is shared by the
// authoritative service (internal/debate), the pre-validating CLI and the
// MCP status tools, so every layer agrees on what is legal.
//
// Everything here is a pure function of its arguments:
// - no I/O, no logging, no package-level mutable state
// - illegality is reported through return values, never panics
// - safe for concurrent use by any number of callers
package protocol

import "fmt"

// --- State enum ---

// State is the position of a debate in the protocol.
type State string

const (
	StateAwaitingOpponent    State = "AWAITING_OPPONENT"
	StateAwaitingProposer    State = "AWAITING_PROPOSER"
	StateAwaitingArbitrator  State = "AWAITING_ARBITRATOR"
	StateInterventionPending State = "INTERVENTION_PENDING"
	StateClosed              State = "CLOSED"
)

// InitialState is the state a debate enters when its motion is recorded.
const InitialState = StateAwaitingOpponent

// States lists every state in declaration order.
var States = []State{
	StateAwaitingOpponent,
	StateAwaitingProposer,
	StateAwaitingArbitrator,
	StateInterventionPending,
	StateClosed,
}

// ParseState returns the State named by s or an error if s is unknown.
func ParseState(s string) (State, error) {
	for _, st := range States {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid state %q: must be one of: AWAITING_OPPONENT, AWAITING_PROPOSER, AWAITING_ARBITRATOR, INTERVENTION_PENDING, CLOSED", s)
}

// IsTerminal reports whether no transition leaves s.
func (s State) IsTerminal() bool {
	return s == StateClosed
}

// --- Role enum ---

// Role is a fixed participant in a debate.
type Role string

const (
	RoleProposer   Role = "proposer"
	RoleOpponent   Role = "opponent"
	RoleArbitrator Role = "arbitrator"
)

// Roles lists every role in presentation order.
var Roles = []Role{RoleProposer, RoleOpponent, RoleArbitrator}

// ParseRole returns the Role named by s or an error if s is unknown.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleProposer, RoleOpponent, RoleArbitrator:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role %q: must be one of: proposer, opponent, arbitrator", s)
}

// --- Argument type enum ---

// ArgumentType classifies a recorded argument.
type ArgumentType string

const (
	ArgumentMotion       ArgumentType = "MOTION"
	ArgumentClaim        ArgumentType = "CLAIM"
	ArgumentAppeal       ArgumentType = "APPEAL"
	ArgumentRuling       ArgumentType = "RULING"
	ArgumentIntervention ArgumentType = "INTERVENTION"
	ArgumentResolution   ArgumentType = "RESOLUTION"
)

// ArgumentTypes lists every argument type in declaration order.
var ArgumentTypes = []ArgumentType{
	ArgumentMotion,
	ArgumentClaim,
	ArgumentAppeal,
	ArgumentRuling,
	ArgumentIntervention,
	ArgumentResolution,
}

// ParseArgumentType returns the ArgumentType named by s or an error if s is unknown.
func ParseArgumentType(s string) (ArgumentType, error) {
	for _, t := range ArgumentTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid argument type %q: must be one of: MOTION, CLAIM, APPEAL, RULING, INTERVENTION, RESOLUTION", s)
}

// --- Events ---

// EventKind names a protocol event.
type EventKind string

const (
	EventSubmitClaim        EventKind = "SUBMIT_CLAIM"
	EventSubmitAppeal       EventKind = "SUBMIT_APPEAL"
	EventSubmitResolution   EventKind = "SUBMIT_RESOLUTION"
	EventSubmitIntervention EventKind = "SUBMIT_INTERVENTION"
	EventSubmitRuling       EventKind = "SUBMIT_RULING"
)

// EventKinds lists every event kind in declaration order.
var EventKinds = []EventKind{
	EventSubmitClaim,
	EventSubmitAppeal,
	EventSubmitResolution,
	EventSubmitIntervention,
	EventSubmitRuling,
}

// Event is a submission attempt against the state machine.
//
// Close only matters for EventSubmitRuling: true means "rule and close",
// false means "rule and continue".
type Event struct {
	Kind  EventKind `json:"type"`
	Role  Role      `json:"role"`
	Close bool      `json:"close,omitempty"`
}

// String renders the event the way error messages and logs show it.
func (e Event) String() string {
	if e.Kind == EventSubmitRuling {
		return fmt.Sprintf("%s{role: %s, close: %t}", e.Kind, e.Role, e.Close)
	}
	return fmt.Sprintf("%s{role: %s}", e.Kind, e.Role)
}

// --- Action labels ---

// Action is the label a caller shows for an event a role may submit.
// Rulings get two labels because they lead to different outcomes.
type Action string

const (
	ActionClaim        Action = "SUBMIT_CLAIM"
	ActionAppeal       Action = "SUBMIT_APPEAL"
	ActionResolution   Action = "SUBMIT_RESOLUTION"
	ActionIntervention Action = "SUBMIT_INTERVENTION"
	ActionRuling       Action = "SUBMIT_RULING"
	ActionRulingClose  Action = "SUBMIT_RULING_CLOSE"
)

// Event returns the event the action stands for when submitted by role.
// Unknown labels yield an event with an empty kind, which no arm accepts.
func (a Action) Event(role Role) Event {
	switch a {
	case ActionClaim:
		return Event{Kind: EventSubmitClaim, Role: role}
	case ActionAppeal:
		return Event{Kind: EventSubmitAppeal, Role: role}
	case ActionResolution:
		return Event{Kind: EventSubmitResolution, Role: role}
	case ActionIntervention:
		return Event{Kind: EventSubmitIntervention, Role: role}
	case ActionRuling:
		return Event{Kind: EventSubmitRuling, Role: role}
	case ActionRulingClose:
		return Event{Kind: EventSubmitRuling, Role: role, Close: true}
	}
	return Event{Role: role}
}

// ActionFor returns the label for an event.
func ActionFor(e Event) Action {
	if e.Kind == EventSubmitRuling && e.Close {
		return ActionRulingClose
	}
	return Action(e.Kind)
}
