package debate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/HendryAvila/agora/internal/protocol"
)

// maxAppendAttempts bounds retries after a compare-and-swap conflict, which
// only happens when another process writes the same database.
const maxAppendAttempts = 2

// ServiceConfig holds the service limits.
type ServiceConfig struct {
	MaxContentLength int
	ListLimit        int
	Logger           *slog.Logger
}

// Service is the authoritative submission path. For each debate it runs
// read state → ApplyTransition → append, one submission at a time.
type Service struct {
	store    Store
	cfg      ServiceConfig
	locks    *keyedMutex
	observer Observer
	logger   *slog.Logger
}

// NewService creates a Service over store.
func NewService(store Store, cfg ServiceConfig) *Service {
	if cfg.MaxContentLength <= 0 {
		cfg.MaxContentLength = 8000
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 20
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, cfg: cfg, locks: newKeyedMutex(), logger: logger}
}

// SetObserver injects an optional Observer.
func (s *Service) SetObserver(obs Observer) {
	if lo, ok := obs.(*LogObserver); ok && lo == nil {
		obs = nil
	}
	s.observer = obs
}

// --- Create ---

// Create opens a debate with its motion. The proposer authors the motion.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Debate, *Argument, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, nil, &ValidationError{Field: "title", Message: "must not be empty"}
	}
	typ := p.Type
	if typ == "" {
		typ = TypeFreeform
	}
	if err := ValidateType(typ); err != nil {
		return nil, nil, &ValidationError{Field: "type", Message: err.Error()}
	}
	if err := s.checkContent("motion", p.Motion); err != nil {
		return nil, nil, err
	}

	d := &Debate{Title: title, Type: typ}
	motion := &Argument{
		Type:    protocol.ArgumentMotion,
		Role:    protocol.RoleProposer,
		Content: p.Motion,
	}
	if err := s.store.CreateDebate(ctx, d, motion); err != nil {
		return nil, nil, fmt.Errorf("creating debate: %w", err)
	}

	notifyCreated(s.observer, *d, *motion)
	return d, motion, nil
}

// --- Submit ---

// Submit validates and records one argument.
//
// Structurally invalid submissions (a type the role can never author)
// fail with *InvalidEventError before the state is read. Well-formed
// submissions the current state rejects fail with *ActionNotAllowedError,
// which lists what each role may do instead. A repeated idempotency key
// returns the originally recorded argument with Duplicate set.
func (s *Service) Submit(ctx context.Context, p SubmitParams) (*SubmitResult, error) {
	role, err := protocol.ParseRole(strings.TrimSpace(p.Role))
	if err != nil {
		return nil, &ValidationError{Field: "role", Message: err.Error()}
	}
	typ, err := protocol.ParseArgumentType(strings.ToUpper(strings.TrimSpace(p.Type)))
	if err != nil {
		return nil, &ValidationError{Field: "type", Message: err.Error()}
	}
	if strings.TrimSpace(p.DebateID) == "" {
		return nil, &ValidationError{Field: "debate_id", Message: "must not be empty"}
	}
	if err := s.checkContent("content", p.Content); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(p.IdempotencyKey)
	parentID := strings.TrimSpace(p.ParentID)

	ev, ok := protocol.EventForArgument(typ, role, protocol.WithClose(p.Close))
	if !ok {
		return nil, &InvalidEventError{Type: typ, Role: role}
	}

	unlock := s.locks.Lock(p.DebateID)
	defer unlock()

	if dup, err := s.duplicate(ctx, p.DebateID, key); err != nil || dup != nil {
		return dup, err
	}

	var lastErr error
	for attempt := 0; attempt < maxAppendAttempts; attempt++ {
		d, err := s.store.GetDebate(ctx, p.DebateID)
		if err != nil {
			return nil, err
		}

		next, ok := protocol.ApplyTransition(d.State, ev)
		if !ok {
			return nil, &ActionNotAllowedError{
				DebateID:  d.ID,
				State:     d.State,
				Attempted: ev,
				Allowed:   protocol.ActionsByRole(d.State),
			}
		}

		if parentID != "" {
			if _, err := s.store.GetArgument(ctx, d.ID, parentID); err != nil {
				return nil, fmt.Errorf("parent %s: %w", parentID, err)
			}
		}

		arg, err := s.store.AppendArgument(ctx, AppendParams{
			DebateID:    d.ID,
			ExpectState: d.State,
			ExpectSeq:   d.LastSeq,
			NextState:   next,
			Argument: Argument{
				ParentID:       nullableString(parentID),
				Type:           typ,
				Role:           role,
				Content:        p.Content,
				Close:          ev.Close,
				IdempotencyKey: nullableString(key),
			},
		})
		if errors.Is(err, ErrConflict) {
			lastErr = err
			// Another writer may have recorded this key first.
			if dup, derr := s.duplicate(ctx, p.DebateID, key); derr != nil || dup != nil {
				return dup, derr
			}
			s.logger.Warn("append conflict, retrying", "debate_id", d.ID, "seq", d.LastSeq, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, err
		}

		from := d.State
		d.State = next
		d.LastSeq = arg.Seq
		d.UpdatedAt = arg.CreatedAt

		notifyAccepted(s.observer, *d, *arg, from)
		return &SubmitResult{Debate: *d, Argument: *arg, Previous: from}, nil
	}
	return nil, lastErr
}

// duplicate returns the argument already recorded under key, or nil when
// the key is empty or unused.
func (s *Service) duplicate(ctx context.Context, debateID, key string) (*SubmitResult, error) {
	if key == "" {
		return nil, nil
	}
	prev, err := s.store.FindByIdempotencyKey(ctx, debateID, key)
	if err != nil {
		return nil, fmt.Errorf("checking idempotency key: %w", err)
	}
	if prev == nil {
		return nil, nil
	}
	d, err := s.store.GetDebate(ctx, debateID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("duplicate submission", "debate_id", debateID, "idempotency_key", key, "argument_id", prev.ID)
	return &SubmitResult{Debate: *d, Argument: *prev, Previous: d.State, Duplicate: true}, nil
}

func (s *Service) checkContent(field, content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Field: field, Message: "must not be empty"}
	}
	if n := len(content); n > s.cfg.MaxContentLength {
		return &ValidationError{Field: field, Message: fmt.Sprintf("is %d bytes, limit is %d", n, s.cfg.MaxContentLength)}
	}
	return nil
}

// --- Queries ---

// Status returns the debate and the actions every role may take next.
func (s *Service) Status(ctx context.Context, id string) (*Status, error) {
	d, err := s.store.GetDebate(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Status{Debate: *d, Actions: protocol.ActionsByRole(d.State)}, nil
}

// Arguments returns the debate's log in seq order.
func (s *Service) Arguments(ctx context.Context, id string) ([]Argument, error) {
	if _, err := s.store.GetDebate(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListArguments(ctx, id)
}

// List returns debates newest first. A zero limit uses the configured default.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Debate, error) {
	if opts.Limit <= 0 {
		opts.Limit = s.cfg.ListLimit
	}
	return s.store.ListDebates(ctx, opts)
}

// --- Verification ---

// Verify replays the debate's log through the protocol engine and
// compares the result with the stored state. An inconsistent debate is
// reported in the Verification, not as an error.
func (s *Service) Verify(ctx context.Context, id string) (*Verification, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	d, err := s.store.GetDebate(ctx, id)
	if err != nil {
		return nil, err
	}
	args, err := s.store.ListArguments(ctx, id)
	if err != nil {
		return nil, err
	}

	entries := make([]protocol.LogEntry, len(args))
	for i, a := range args {
		entries[i] = a.LogEntry()
	}

	v := &Verification{DebateID: d.ID, Stored: d.State, Arguments: len(args)}
	replayed, err := protocol.Replay(entries)
	v.Replayed = replayed
	switch {
	case err != nil:
		v.Problem = err.Error()
	case replayed != d.State:
		v.Problem = fmt.Sprintf("stored state %s, log replays to %s", d.State, replayed)
	case int64(len(args)) != d.LastSeq:
		v.Problem = fmt.Sprintf("stored last_seq %d, log has %d arguments", d.LastSeq, len(args))
	default:
		v.Consistent = true
	}
	if !v.Consistent {
		s.logger.Warn("debate log inconsistent", "debate_id", d.ID, "problem", v.Problem)
	}
	return v, nil
}

// VerifyAll verifies every debate, newest first.
func (s *Service) VerifyAll(ctx context.Context) ([]Verification, error) {
	debates, err := s.store.ListDebates(ctx, ListOptions{})
	if err != nil {
		return nil, err
	}
	out := make([]Verification, 0, len(debates))
	for _, d := range debates {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		v, err := s.Verify(ctx, d.ID)
		if err != nil {
			return out, err
		}
		out = append(out, *v)
	}
	return out, nil
}
