package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"videnc/internal/stats"
)

// Run statuses.
const (
	StatusOK           = "ok"
	StatusEncodeFailed = "encode_failed"
)

// timestampLayout keeps started_at fixed-width so text order is time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one recorded invocation.
type Run struct {
	RunID       string
	StartedAt   time.Time
	Engine      string
	Input       string
	WallSeconds float64
	CPUSeconds  float64
	Status      string
	Error       string
	Cells       int
}

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history database path is empty")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores the run and its table cells in one transaction.
func (s *Store) Record(ctx context.Context, snapshot stats.Snapshot) error {
	run := snapshot.Run
	status, message := StatusOK, ""
	if run.EncodeErr != nil {
		status, message = StatusEncodeFailed, run.EncodeErr.Error()
	}
	startedAt := run.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, engine, input, wall_seconds, cpu_seconds, status, error_message)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		startedAt.UTC().Format(timestampLayout),
		run.Engine,
		run.Input,
		run.Wall.Seconds(),
		run.CPU.Seconds(),
		status,
		nullableString(message),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO cells (run_id, table_name, cell_key, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare cell insert: %w", err)
	}
	defer stmt.Close()
	for _, table := range snapshot.Tables {
		for _, cell := range table.Cells {
			if _, err := stmt.ExecContext(ctx, run.RunID, table.Name, strings.Join(cell.Key, ","), cell.Value); err != nil {
				return fmt.Errorf("insert cell %s[%s]: %w", table.Name, strings.Join(cell.Key, ","), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.run_id, r.started_at, r.engine, r.input, r.wall_seconds, r.cpu_seconds,
                r.status, r.error_message, COUNT(c.cell_key)
         FROM runs r LEFT JOIN cells c ON c.run_id = r.run_id
         GROUP BY r.run_id
         ORDER BY r.started_at DESC
         LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			startedAt string
			message   sql.NullString
		)
		if err := rows.Scan(&run.RunID, &startedAt, &run.Engine, &run.Input, &run.WallSeconds,
			&run.CPUSeconds, &run.Status, &message, &run.Cells); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			run.StartedAt = ts
		}
		run.Error = message.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// CellValues returns the stored cells of one table for a run, keyed by joined labels.
func (s *Store) CellValues(ctx context.Context, runID, table string) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cell_key, value FROM cells WHERE run_id = ? AND table_name = ?`, runID, table)
	if err != nil {
		return nil, fmt.Errorf("query cells: %w", err)
	}
	defer rows.Close()

	values := make(map[string]int64)
	for rows.Next() {
		var key string
		var value int64
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan cell: %w", err)
		}
		values[key] = value
	}
	return values, rows.Err()
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
