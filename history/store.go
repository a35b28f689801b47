package history

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kbukum/legalassist/errors"
	"github.com/kbukum/legalassist/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	input       TEXT NOT NULL,
	state       TEXT NOT NULL,
	error_code  TEXT NOT NULL DEFAULT '',
	error       TEXT NOT NULL DEFAULT '',
	report_key  TEXT NOT NULL DEFAULT '',
	chunks      INTEGER NOT NULL DEFAULT 0,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at);
`

// StateRunning is recorded for runs that have started but not finished.
const StateRunning = "Running"

// Run is one ledger row.
type Run struct {
	ID         string     `json:"id"`
	Input      string     `json:"input"`
	State      string     `json:"state"`
	ErrorCode  string     `json:"error_code,omitempty"`
	Error      string     `json:"error,omitempty"`
	ReportKey  string     `json:"report_key,omitempty"`
	Chunks     int        `json:"chunks"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Duration returns how long the run took, or zero while it is running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Outcome is what Finish records for a run.
type Outcome struct {
	State     string
	ReportKey string
	Chunks    int
	Err       error
}

// Store is the SQLite-backed run ledger.
type Store struct {
	db     *sql.DB
	log    *logger.Logger
	now    func() time.Time
	mu     sync.Mutex
	closed bool
}

// Open opens (creating if needed) the ledger database and applies the schema.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*Store, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dsn := cfg.Path
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o750); err != nil {
			return nil, fmt.Errorf("history: create directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
			cfg.Path, cfg.BusyTimeout.Milliseconds())
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	// ":memory:" databases are per connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: apply schema: %w", err)
	}

	l := log.WithComponent("history")
	l.Info("run ledger ready", logger.Fields("path", cfg.Path))
	return &Store{db: db, log: l, now: time.Now}, nil
}

// Start records a new running row for runID.
func (s *Store) Start(ctx context.Context, runID, input string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, input, state, started_at) VALUES (?, ?, ?, ?)`,
		runID, input, StateRunning, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("history: insert run: %w", err)
	}
	return nil
}

// Finish records the terminal state of runID.
func (s *Store) Finish(ctx context.Context, runID string, out Outcome) error {
	var code, msg string
	if out.Err != nil {
		msg = out.Err.Error()
		if appErr, ok := errors.AsAppError(out.Err); ok {
			code = string(appErr.Code)
		}
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET state = ?, error_code = ?, error = ?, report_key = ?, chunks = ?, finished_at = ?
		 WHERE id = ?`,
		out.State, code, msg, out.ReportKey, out.Chunks, s.now().UnixMilli(), runID)
	if err != nil {
		return fmt.Errorf("history: update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("run", runID)
	}
	return nil
}

// Get returns the run with the given id.
func (s *Store) Get(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, input, state, error_code, error, report_key, chunks, started_at, finished_at
		 FROM runs WHERE id = ?`, runID)
	r, err := scanRun(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("run", runID)
		}
		return nil, fmt.Errorf("history: scan run: %w", err)
	}
	return r, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input, state, error_code, error, report_key, chunks, started_at, finished_at
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database. Safe to call multiple times.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.log.Debug("closing run ledger")
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var r Run
	var started int64
	var finished sql.NullInt64
	if err := sc.Scan(&r.ID, &r.Input, &r.State, &r.ErrorCode, &r.Error,
		&r.ReportKey, &r.Chunks, &started, &finished); err != nil {
		return nil, err
	}
	r.StartedAt = time.UnixMilli(started)
	if finished.Valid {
		t := time.UnixMilli(finished.Int64)
		r.FinishedAt = &t
	}
	return &r, nil
}
