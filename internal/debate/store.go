package debate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HendryAvila/agora/internal/protocol"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// newID is a package-level var so tests can pin identifiers.
var newID = uuid.NewString

// Store defines the persistence interface for debates and their logs.
// Abstracted so the service can be tested against fakes (DIP).
type Store interface {
	CreateDebate(ctx context.Context, d *Debate, motion *Argument) error
	GetDebate(ctx context.Context, id string) (*Debate, error)
	ListDebates(ctx context.Context, opts ListOptions) ([]Debate, error)
	ListArguments(ctx context.Context, debateID string) ([]Argument, error)
	GetArgument(ctx context.Context, debateID, id string) (*Argument, error)
	FindByIdempotencyKey(ctx context.Context, debateID, key string) (*Argument, error)
	AppendArgument(ctx context.Context, p AppendParams) (*Argument, error)
	Close() error
}

// ─── Config ──────────────────────────────────────────────────────────────────

// StoreConfig holds SQLite store configuration.
type StoreConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// ─── Store ───────────────────────────────────────────────────────────────────

// SQLiteStore is the Store backed by SQLite via modernc.org/sqlite.
type SQLiteStore struct {
	db    *sql.DB
	hooks storeHooks
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type storeHooks struct {
	exec    func(ctx context.Context, db execer, query string, args ...any) (sql.Result, error)
	beginTx func(ctx context.Context, db *sql.DB) (*sql.Tx, error)
	commit  func(tx *sql.Tx) error
}

func (s *SQLiteStore) execHook(ctx context.Context, db execer, query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(ctx, db, query, args...)
	}
	return db.ExecContext(ctx, query, args...)
}

func (s *SQLiteStore) beginTxHook(ctx context.Context) (*sql.Tx, error) {
	if s.hooks.beginTx != nil {
		return s.hooks.beginTx(ctx, s.db)
	}
	return s.db.BeginTx(ctx, nil)
}

func (s *SQLiteStore) commitHook(tx *sql.Tx) error {
	if s.hooks.commit != nil {
		return s.hooks.commit(tx)
	}
	return tx.Commit()
}

// NewSQLiteStore opens (creating if needed) the database at cfg.Path,
// applies the connection pragmas and runs migrations.
func NewSQLiteStore(cfg StoreConfig) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, fmt.Errorf("debate: create data dir: %w", err)
	}

	db, err := openDB("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("debate: open database: %w", err)
	}
	// A single connection keeps pragmas (foreign_keys) in effect for every
	// statement and serializes writers inside this process.
	db.SetMaxOpenConns(1)

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busy.Milliseconds()),
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("debate: pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("debate: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *SQLiteStore) migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS debates (
			id         TEXT    PRIMARY KEY,
			title      TEXT    NOT NULL,
			type       TEXT    NOT NULL DEFAULT 'freeform',
			state      TEXT    NOT NULL,
			last_seq   INTEGER NOT NULL DEFAULT 0,
			created_at TEXT    NOT NULL,
			updated_at TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_debates_state   ON debates(state);
		CREATE INDEX IF NOT EXISTS idx_debates_created ON debates(created_at DESC);

		CREATE TABLE IF NOT EXISTS arguments (
			id              TEXT    PRIMARY KEY,
			debate_id       TEXT    NOT NULL,
			parent_id       TEXT,
			type            TEXT    NOT NULL,
			role            TEXT    NOT NULL,
			content         TEXT    NOT NULL,
			close           INTEGER NOT NULL DEFAULT 0,
			idempotency_key TEXT,
			seq             INTEGER NOT NULL,
			created_at      TEXT    NOT NULL,
			FOREIGN KEY (debate_id) REFERENCES debates(id) ON DELETE CASCADE,
			FOREIGN KEY (parent_id) REFERENCES arguments(id)
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_args_seq ON arguments(debate_id, seq);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_args_key ON arguments(debate_id, idempotency_key)
			WHERE idempotency_key IS NOT NULL;
		CREATE INDEX IF NOT EXISTS idx_args_parent ON arguments(parent_id);
	`
	_, err := s.execHook(ctx, s.db, schema)
	return err
}

// ─── Debates ─────────────────────────────────────────────────────────────────

// CreateDebate inserts the debate and its motion (seq 1) in one
// transaction. Empty ids are generated. The debate always starts in
// protocol.InitialState.
func (s *SQLiteStore) CreateDebate(ctx context.Context, d *Debate, motion *Argument) error {
	if motion.Type != protocol.ArgumentMotion {
		return fmt.Errorf("debate: opening argument must be a MOTION, got %s", motion.Type)
	}

	ts := now()
	if d.ID == "" {
		d.ID = newID()
	}
	if d.Type == "" {
		d.Type = TypeFreeform
	}
	d.State = protocol.InitialState
	d.LastSeq = 1
	d.CreatedAt, d.UpdatedAt = ts, ts

	if motion.ID == "" {
		motion.ID = newID()
	}
	motion.DebateID = d.ID
	motion.ParentID = nil
	motion.Seq = 1
	motion.CreatedAt = ts

	tx, err := s.beginTxHook(ctx)
	if err != nil {
		return fmt.Errorf("debate: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.execHook(ctx, tx,
		`INSERT INTO debates (id, title, type, state, last_seq, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Title, string(d.Type), string(d.State), d.LastSeq, d.CreatedAt, d.UpdatedAt,
	); err != nil {
		return fmt.Errorf("debate: insert debate: %w", err)
	}
	if err := s.insertArgument(ctx, tx, motion); err != nil {
		return err
	}
	if err := s.commitHook(tx); err != nil {
		return fmt.Errorf("debate: commit: %w", err)
	}
	return nil
}

// GetDebate loads a debate by id.
func (s *SQLiteStore) GetDebate(ctx context.Context, id string) (*Debate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, type, state, last_seq, created_at, updated_at
		 FROM debates WHERE id = ?`, id)
	d, err := scanDebate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDebateNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("debate: get %s: %w", id, err)
	}
	return d, nil
}

// ListDebates returns debates newest first, optionally filtered by state.
func (s *SQLiteStore) ListDebates(ctx context.Context, opts ListOptions) ([]Debate, error) {
	query := `SELECT id, title, type, state, last_seq, created_at, updated_at FROM debates`
	args := []any{}
	if opts.State != "" {
		query += " WHERE state = ?"
		args = append(args, string(opts.State))
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("debate: list: %w", err)
	}
	defer rows.Close()

	var out []Debate
	for rows.Next() {
		d, err := scanDebate(rows)
		if err != nil {
			return nil, fmt.Errorf("debate: scan: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// ─── Arguments ───────────────────────────────────────────────────────────────

const argumentColumns = `id, debate_id, parent_id, type, role, content, close, idempotency_key, seq, created_at`

// ListArguments returns a debate's log ordered by seq.
func (s *SQLiteStore) ListArguments(ctx context.Context, debateID string) ([]Argument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+argumentColumns+` FROM arguments WHERE debate_id = ? ORDER BY seq ASC`, debateID)
	if err != nil {
		return nil, fmt.Errorf("debate: list arguments: %w", err)
	}
	defer rows.Close()

	var out []Argument
	for rows.Next() {
		a, err := scanArgument(rows)
		if err != nil {
			return nil, fmt.Errorf("debate: scan argument: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// GetArgument loads one argument, which must belong to debateID.
func (s *SQLiteStore) GetArgument(ctx context.Context, debateID, id string) (*Argument, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+argumentColumns+` FROM arguments WHERE debate_id = ? AND id = ?`, debateID, id)
	a, err := scanArgument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrArgumentNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("debate: get argument %s: %w", id, err)
	}
	return a, nil
}

// FindByIdempotencyKey returns the argument recorded with key in the
// debate, or nil (not an error) if there is none.
func (s *SQLiteStore) FindByIdempotencyKey(ctx context.Context, debateID, key string) (*Argument, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+argumentColumns+` FROM arguments WHERE debate_id = ? AND idempotency_key = ?`, debateID, key)
	a, err := scanArgument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("debate: find idempotency key: %w", err)
	}
	return a, nil
}

// AppendArgument records p.Argument at seq ExpectSeq+1 and moves the debate
// to NextState, provided the debate is still at (ExpectState, ExpectSeq).
// Otherwise nothing is written and ErrConflict is returned. A nil parent
// defaults to the argument at ExpectSeq.
func (s *SQLiteStore) AppendArgument(ctx context.Context, p AppendParams) (*Argument, error) {
	tx, err := s.beginTxHook(ctx)
	if err != nil {
		return nil, fmt.Errorf("debate: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ts := now()
	res, err := s.execHook(ctx, tx,
		`UPDATE debates
		 SET state = ?, last_seq = last_seq + 1, updated_at = ?
		 WHERE id = ? AND state = ? AND last_seq = ?`,
		string(p.NextState), ts, p.DebateID, string(p.ExpectState), p.ExpectSeq,
	)
	if err != nil {
		return nil, fmt.Errorf("debate: advance %s: %w", p.DebateID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("debate: advance %s: %w", p.DebateID, err)
	}
	if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM debates WHERE id = ?`, p.DebateID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrDebateNotFound, p.DebateID)
		}
		if err != nil {
			return nil, fmt.Errorf("debate: check %s: %w", p.DebateID, err)
		}
		return nil, fmt.Errorf("%w: %s is no longer %s at seq %d", ErrConflict, p.DebateID, p.ExpectState, p.ExpectSeq)
	}

	a := p.Argument
	if a.ID == "" {
		a.ID = newID()
	}
	a.DebateID = p.DebateID
	a.Seq = p.ExpectSeq + 1
	a.CreatedAt = ts

	if a.ParentID == nil {
		var parent string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM arguments WHERE debate_id = ? AND seq = ?`, p.DebateID, p.ExpectSeq).Scan(&parent)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("debate: resolve parent: %w", err)
		}
		if err == nil {
			a.ParentID = &parent
		}
	} else {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM arguments WHERE debate_id = ? AND id = ?`, p.DebateID, *a.ParentID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: parent %s is not in debate %s", ErrArgumentNotFound, *a.ParentID, p.DebateID)
		}
		if err != nil {
			return nil, fmt.Errorf("debate: check parent: %w", err)
		}
	}

	if err := s.insertArgument(ctx, tx, &a); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}
	if err := s.commitHook(tx); err != nil {
		return nil, fmt.Errorf("debate: commit: %w", err)
	}
	return &a, nil
}

func (s *SQLiteStore) insertArgument(ctx context.Context, db execer, a *Argument) error {
	if _, err := s.execHook(ctx, db,
		`INSERT INTO arguments (`+argumentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.DebateID, a.ParentID, string(a.Type), string(a.Role), a.Content,
		a.Close, a.IdempotencyKey, a.Seq, a.CreatedAt,
	); err != nil {
		return fmt.Errorf("debate: insert argument: %w", err)
	}
	return nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

type scanner interface {
	Scan(dest ...any) error
}

func scanDebate(row scanner) (*Debate, error) {
	var d Debate
	var typ, state string
	if err := row.Scan(&d.ID, &d.Title, &typ, &state, &d.LastSeq, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Type = Type(typ)
	d.State = protocol.State(state)
	return &d, nil
}

func scanArgument(row scanner) (*Argument, error) {
	var a Argument
	var typ, role string
	if err := row.Scan(&a.ID, &a.DebateID, &a.ParentID, &typ, &role, &a.Content,
		&a.Close, &a.IdempotencyKey, &a.Seq, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Type = protocol.ArgumentType(typ)
	a.Role = protocol.Role(role)
	return &a, nil
}

// isUniqueViolation checks if an error is a SQLite UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// nullableString returns nil for blank strings so they are stored as NULL.
func nullableString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
