package protocol

// candidates is the fixed priority order of actions considered per role.
// Every candidate is filtered through CanTransition, so the list is a
// superset for most states: an arbitrator's intervention is dropped in
// AWAITING_ARBITRATOR because the table has no arm for it there.
var candidates = map[Role][]Action{
	RoleProposer:   {ActionClaim, ActionAppeal, ActionResolution},
	RoleOpponent:   {ActionClaim},
	RoleArbitrator: {ActionIntervention, ActionRuling, ActionRulingClose},
}

// AvailableActions lists the actions role may legally submit from state,
// in the role's candidate order. The result is never nil; it is empty for
// CLOSED and for unknown roles or states.
func AvailableActions(state State, role Role) []Action {
	out := []Action{}
	seen := make(map[Action]bool, 3)
	for _, a := range candidates[role] {
		if seen[a] {
			continue
		}
		if CanTransition(state, a.Event(role)) {
			out = append(out, a)
			seen[a] = true
		}
	}
	return out
}

// ActionsByRole returns AvailableActions for every role. Roles with no
// legal action map to an empty slice.
func ActionsByRole(state State) map[Role][]Action {
	out := make(map[Role][]Action, len(Roles))
	for _, r := range Roles {
		out[r] = AvailableActions(state, r)
	}
	return out
}
