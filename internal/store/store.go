package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	rgerror "github.com/msto63/robogame/foundation/core/error"
	rglog "github.com/msto63/robogame/foundation/core/log"
)

// Run kinds
const (
	KindRun   = "run"
	KindMatch = "match"
)

// Run is the record of one script run or match
type Run struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"`
	Scenario  string            `json:"scenario,omitempty"`
	Robots    []string          `json:"robots"`
	Scripts   map[string]string `json:"scripts,omitempty"`
	Winner    string            `json:"winner,omitempty"`
	Reason    string            `json:"reason,omitempty"`
	Ticks     int               `json:"ticks"`
	Error     string            `json:"error,omitempty"`
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration"`
}

// Event is the state of one robot after one tick
type Event struct {
	RunID   string `json:"run_id"`
	Tick    int    `json:"tick"`
	Robot   string `json:"robot"`
	Action  string `json:"action,omitempty"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Heading string `json:"heading"`
	Fuel    int    `json:"fuel"`
	Shield  bool   `json:"shield"`
}

// Filter defines criteria for listing runs
type Filter struct {
	Kind  string
	Robot string
	Since time.Time
	Limit int
}

// Store persists runs and their events in SQLite
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *rglog.Logger
}

// NewRunID returns a fresh run identifier
func NewRunID() string {
	return uuid.NewString()
}

// Open opens or creates the database at path
func Open(path string, logger *rglog.Logger) (*Store, error) {
	if logger == nil {
		logger = rglog.GetDefault()
	}

	// Ensure directory exists
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, dbError(err, "failed to create directory")
		}
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, dbError(err, "failed to open database")
	}

	s := &Store{db: db, logger: logger.WithField("component", "run-store")}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize schema")
	}

	s.logger.Debug("run store opened", rglog.Fields{"path": path})
	return s, nil
}

// initSchema creates the necessary tables
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		scenario TEXT,
		robots TEXT NOT NULL,
		scripts TEXT,
		winner TEXT,
		reason TEXT,
		ticks INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		started_at DATETIME NOT NULL,
		duration_ns INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS events (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		robot TEXT NOT NULL,
		action TEXT,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		heading TEXT NOT NULL,
		fuel INTEGER NOT NULL,
		shield INTEGER NOT NULL,
		PRIMARY KEY (run_id, tick, robot)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun inserts or replaces a run record. An empty ID is filled in.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.Kind == "" {
		run.Kind = KindRun
	}

	robotsJSON, err := json.Marshal(run.Robots)
	if err != nil {
		return dbError(err, "failed to encode robots")
	}
	var scriptsJSON []byte
	if run.Scripts != nil {
		if scriptsJSON, err = json.Marshal(run.Scripts); err != nil {
			return dbError(err, "failed to encode scripts")
		}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (id, kind, scenario, robots, scripts, winner, reason, ticks, error, started_at, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Kind, run.Scenario, string(robotsJSON), nullString(scriptsJSON), run.Winner, run.Reason,
		run.Ticks, run.Error, run.StartedAt.UTC(), int64(run.Duration))
	if err != nil {
		return dbError(err, "failed to save run")
	}
	return nil
}

// AppendEvents stores events in one transaction
func (s *Store) AppendEvents(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dbError(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO events (run_id, tick, robot, action, x, y, heading, fuel, shield)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return dbError(err, "failed to prepare statement")
	}
	defer stmt.Close()

	for _, e := range events {
		if e.RunID == "" {
			return rgerror.New("event without run id").
				WithCode(rgerror.CodeInvalidInput).
				WithOperation("store.AppendEvents")
		}
		if _, err := stmt.ExecContext(ctx, e.RunID, e.Tick, e.Robot, e.Action, e.X, e.Y, e.Heading, e.Fuel, e.Shield); err != nil {
			return dbError(err, "failed to insert event")
		}
	}

	if err := tx.Commit(); err != nil {
		return dbError(err, "failed to commit transaction")
	}
	return nil
}

const runColumns = `id, kind, scenario, robots, scripts, winner, reason, ticks, error, started_at, duration_ns`

// ListRuns returns runs matching filter, newest first
func (s *Store) ListRuns(ctx context.Context, filter Filter) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + runColumns + ` FROM runs WHERE 1=1`
	var args []interface{}

	if filter.Kind != "" {
		query += " AND kind = ?"
		args = append(args, filter.Kind)
	}
	if filter.Robot != "" {
		query += ` AND robots LIKE ?`
		args = append(args, `%"`+filter.Robot+`"%`)
	}
	if !filter.Since.IsZero() {
		query += " AND started_at >= ?"
		args = append(args, filter.Since.UTC())
	}

	query += " ORDER BY started_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, "failed to query runs")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read runs")
	}
	return runs, nil
}

// GetRun returns the run with the given id. A unique id prefix is accepted.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id == "" {
		return nil, rgerror.New("run id cannot be empty").WithCode(rgerror.CodeInvalidInput)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ORDER BY id LIMIT 3`, id, id+"%")
	if err != nil {
		return nil, dbError(err, "failed to query run")
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		if run.ID == id {
			return run, nil
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read run")
	}

	switch len(found) {
	case 0:
		return nil, rgerror.Newf("run %s not found", id).
			WithCode(rgerror.CodeNotFound).
			WithOperation("store.GetRun")
	case 1:
		return found[0], nil
	default:
		return nil, rgerror.Newf("run id prefix %s is ambiguous", id).
			WithCode(rgerror.CodeInvalidInput).
			WithOperation("store.GetRun")
	}
}

// Events returns the events of a run in tick order
func (s *Store) Events(ctx context.Context, runID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, tick, robot, action, x, y, heading, fuel, shield
		FROM events WHERE run_id = ? ORDER BY tick, robot
	`, runID)
	if err != nil {
		return nil, dbError(err, "failed to query events")
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var action sql.NullString
		if err := rows.Scan(&e.RunID, &e.Tick, &e.Robot, &action, &e.X, &e.Y, &e.Heading, &e.Fuel, &e.Shield); err != nil {
			return nil, dbError(err, "failed to scan event")
		}
		e.Action = action.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read events")
	}
	return events, nil
}

// Prune removes runs started before now minus olderThan, with their events
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan).UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, dbError(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM events WHERE run_id IN (SELECT id FROM runs WHERE started_at < ?)`, cutoff); err != nil {
		return 0, dbError(err, "failed to prune events")
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, dbError(err, "failed to prune runs")
	}
	if err := tx.Commit(); err != nil {
		return 0, dbError(err, "failed to commit transaction")
	}

	n, _ := result.RowsAffected()
	s.logger.Info("pruned run history", rglog.Fields{"runs": n, "cutoff": cutoff.Format(time.RFC3339)})
	return n, nil
}

// Ping verifies the database connection
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return dbError(err, "ping")
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var scenario, scripts, winner, reason, runErr sql.NullString
	var robots string
	var durationNS int64

	if err := row.Scan(&run.ID, &run.Kind, &scenario, &robots, &scripts, &winner, &reason,
		&run.Ticks, &runErr, &run.StartedAt, &durationNS); err != nil {
		return nil, dbError(err, "failed to scan run")
	}

	run.Scenario = scenario.String
	run.Winner = winner.String
	run.Reason = reason.String
	run.Error = runErr.String
	run.Duration = time.Duration(durationNS)

	if err := json.Unmarshal([]byte(robots), &run.Robots); err != nil {
		return nil, dbError(err, "failed to decode robots")
	}
	if scripts.Valid && scripts.String != "" {
		if err := json.Unmarshal([]byte(scripts.String), &run.Scripts); err != nil {
			return nil, dbError(err, "failed to decode scripts")
		}
	}
	return &run, nil
}

func nullString(b []byte) sql.NullString {
	if b == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

func dbError(err error, message string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", message, err)
	}
	return rgerror.Wrap(err, message).WithCode(rgerror.CodeDatabaseError)
}
