package protocol

import "fmt"

// LogEntry is the part of a recorded argument the state machine reads.
type LogEntry struct {
	Seq   int64
	Type  ArgumentType
	Role  Role
	Close bool
}

// ReplayError reports the first log entry that does not fold.
type ReplayError struct {
	Seq    int64
	State  State
	Reason string
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("replay: seq %d in state %s: %s", e.Seq, e.State, e.Reason)
}

// Replay folds an ordered argument log through the state machine and
// returns the state it ends in. The first entry must be the motion at
// seq 1; every later entry must carry the next seq, map to an event and
// be legal in the state reached so far.
func Replay(entries []LogEntry) (State, error) {
	if len(entries) == 0 {
		return "", &ReplayError{Reason: "empty log: a debate starts with its motion"}
	}
	if entries[0].Type != ArgumentMotion {
		return "", &ReplayError{Seq: entries[0].Seq, Reason: fmt.Sprintf("first argument is %s, want MOTION", entries[0].Type)}
	}

	state := InitialState
	var prev int64
	for _, entry := range entries {
		if entry.Seq != prev+1 {
			return state, &ReplayError{Seq: entry.Seq, State: state, Reason: fmt.Sprintf("sequence gap: want seq %d", prev+1)}
		}
		prev = entry.Seq
		if entry.Seq == 1 {
			continue
		}

		e, ok := EventForArgument(entry.Type, entry.Role, WithClose(entry.Close))
		if !ok {
			return state, &ReplayError{Seq: entry.Seq, State: state, Reason: fmt.Sprintf("%s by %s does not map to an event", entry.Type, entry.Role)}
		}
		next, ok := ApplyTransition(state, e)
		if !ok {
			return state, &ReplayError{Seq: entry.Seq, State: state, Reason: fmt.Sprintf("%s is not allowed", e)}
		}
		state = next
	}
	return state, nil
}
