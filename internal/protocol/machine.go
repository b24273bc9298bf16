package protocol

// --- Transition table ---
//
// Each arm matches a (state, event kind) pair and a guard over the event
// payload. Arms for the same pair are tried in table order; the first
// guard that holds decides the next state. A pair with no matching arm is
// an illegal transition. CLOSED has no arms.

// Transition is one arm of the table.
type Transition struct {
	From  State     `json:"from"`
	Event EventKind `json:"event"`
	Guard string    `json:"guard"`
	To    State     `json:"to"`

	guard func(Event) bool
}

func roleIs(r Role) func(Event) bool {
	return func(e Event) bool { return e.Role == r }
}

func closeIs(v bool) func(Event) bool {
	return func(e Event) bool { return e.Close == v }
}

var table = []Transition{
	{From: StateAwaitingOpponent, Event: EventSubmitClaim, Guard: "role == opponent", To: StateAwaitingProposer, guard: roleIs(RoleOpponent)},
	{From: StateAwaitingOpponent, Event: EventSubmitIntervention, Guard: "role == arbitrator", To: StateInterventionPending, guard: roleIs(RoleArbitrator)},

	{From: StateAwaitingProposer, Event: EventSubmitClaim, Guard: "role == proposer", To: StateAwaitingOpponent, guard: roleIs(RoleProposer)},
	{From: StateAwaitingProposer, Event: EventSubmitAppeal, Guard: "role == proposer", To: StateAwaitingArbitrator, guard: roleIs(RoleProposer)},
	{From: StateAwaitingProposer, Event: EventSubmitResolution, Guard: "role == proposer", To: StateAwaitingArbitrator, guard: roleIs(RoleProposer)},
	{From: StateAwaitingProposer, Event: EventSubmitIntervention, Guard: "role == arbitrator", To: StateInterventionPending, guard: roleIs(RoleArbitrator)},

	{From: StateAwaitingArbitrator, Event: EventSubmitRuling, Guard: "close == true", To: StateClosed, guard: closeIs(true)},
	{From: StateAwaitingArbitrator, Event: EventSubmitRuling, Guard: "close != true", To: StateAwaitingProposer, guard: closeIs(false)},

	{From: StateInterventionPending, Event: EventSubmitRuling, Guard: "close == true", To: StateClosed, guard: closeIs(true)},
	{From: StateInterventionPending, Event: EventSubmitRuling, Guard: "close != true", To: StateAwaitingProposer, guard: closeIs(false)},
}

// eventRoles is the tagged-union shape of each event: the roles that may
// author it at all, independent of state.
var eventRoles = map[EventKind][]Role{
	EventSubmitClaim:        {RoleProposer, RoleOpponent},
	EventSubmitAppeal:       {RoleProposer},
	EventSubmitResolution:   {RoleProposer},
	EventSubmitIntervention: {RoleArbitrator},
	EventSubmitRuling:       {RoleArbitrator},
}

type armKey struct {
	from State
	kind EventKind
}

// arms indexes table by (state, kind). Built once, never mutated.
var arms = func() map[armKey][]Transition {
	idx := make(map[armKey][]Transition, len(table))
	for _, t := range table {
		k := armKey{from: t.From, kind: t.Event}
		idx[k] = append(idx[k], t)
	}
	return idx
}()

// wellFormed reports whether the event's role is one its kind allows.
func wellFormed(e Event) bool {
	for _, r := range eventRoles[e.Kind] {
		if r == e.Role {
			return true
		}
	}
	return false
}

// resolve finds the arm that accepts e from state.
func resolve(state State, e Event) (Transition, bool) {
	if !wellFormed(e) {
		return Transition{}, false
	}
	for _, t := range arms[armKey{from: state, kind: e.Kind}] {
		if t.guard(e) {
			return t, true
		}
	}
	return Transition{}, false
}

// CanTransition reports whether e is accepted in state.
func CanTransition(state State, e Event) bool {
	_, ok := resolve(state, e)
	return ok
}

// ApplyTransition returns the state that follows state when e is accepted.
// The bool is false for an illegal transition, in which case the returned
// state is empty. Callers persist the result.
func ApplyTransition(state State, e Event) (State, bool) {
	t, ok := resolve(state, e)
	if !ok {
		return "", false
	}
	return t.To, true
}

// Transitions returns a copy of the table in declaration order.
func Transitions() []Transition {
	out := make([]Transition, len(table))
	copy(out, table)
	return out
}
