package debate

import (
	"log/slog"

	"github.com/HendryAvila/agora/internal/protocol"
)

// Observer is notified after an argument has been committed.
// A nil observer is allowed.
type Observer interface {
	// OnDebateCreated is called once the debate and its motion are stored.
	OnDebateCreated(d Debate, motion Argument)
	// OnArgumentAccepted is called after the argument and the new state
	// are stored. from is the state the debate was in before.
	OnArgumentAccepted(d Debate, a Argument, from protocol.State)
}

// LogObserver records debate activity through a structured logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an observer that logs to logger. Returns nil if
// logger is nil.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		return nil
	}
	return &LogObserver{logger: logger}
}

// OnDebateCreated logs the new debate.
func (o *LogObserver) OnDebateCreated(d Debate, motion Argument) {
	o.logger.Info("debate created",
		"debate_id", d.ID,
		"title", d.Title,
		"type", d.Type,
		"motion_id", motion.ID,
	)
}

// OnArgumentAccepted logs the transition, and the closure when the debate
// reached its terminal state.
func (o *LogObserver) OnArgumentAccepted(d Debate, a Argument, from protocol.State) {
	o.logger.Info("argument accepted",
		"debate_id", d.ID,
		"argument_id", a.ID,
		"seq", a.Seq,
		"type", a.Type,
		"role", a.Role,
		"from", from,
		"to", d.State,
	)
	if d.State.IsTerminal() {
		o.logger.Info("debate closed", "debate_id", d.ID, "arguments", a.Seq)
	}
}

// notifyCreated and notifyAccepted are nil-safe helpers.
func notifyCreated(obs Observer, d Debate, motion Argument) {
	if obs == nil {
		return
	}
	obs.OnDebateCreated(d, motion)
}

func notifyAccepted(obs Observer, d Debate, a Argument, from protocol.State) {
	if obs == nil {
		return
	}
	obs.OnArgumentAccepted(d, a, from)
}
