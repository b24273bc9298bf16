package protocol

type mappingKey struct {
	typ  ArgumentType
	role Role
}

// mapping translates a recorded argument into the event it triggers.
// MOTION is absent on purpose: it opens a debate and never transitions.
var mapping = map[mappingKey]EventKind{
	{ArgumentClaim, RoleProposer}:          EventSubmitClaim,
	{ArgumentClaim, RoleOpponent}:          EventSubmitClaim,
	{ArgumentAppeal, RoleProposer}:         EventSubmitAppeal,
	{ArgumentResolution, RoleProposer}:     EventSubmitResolution,
	{ArgumentIntervention, RoleArbitrator}: EventSubmitIntervention,
	{ArgumentRuling, RoleArbitrator}:       EventSubmitRuling,
}

// MapOptions carries the payload fields an argument does not hold itself.
type MapOptions struct {
	Close bool
}

// MapOption configures EventForArgument.
type MapOption func(*MapOptions)

// WithClose sets the ruling close flag.
func WithClose(v bool) MapOption {
	return func(o *MapOptions) { o.Close = v }
}

// EventForArgument maps an argument's (type, role) pair to its event.
// The bool is false when the pairing has no event, which means the
// submission is structurally invalid regardless of the current state.
func EventForArgument(typ ArgumentType, role Role, opts ...MapOption) (Event, bool) {
	kind, ok := mapping[mappingKey{typ: typ, role: role}]
	if !ok {
		return Event{}, false
	}
	var o MapOptions
	for _, opt := range opts {
		opt(&o)
	}
	e := Event{Kind: kind, Role: role}
	if kind == EventSubmitRuling {
		e.Close = o.Close
	}
	return e, true
}
