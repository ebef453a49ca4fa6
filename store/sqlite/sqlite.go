/*
Package sqlite provides the SQLite-backed implementation of clock.Store.

PURPOSE:
  Durable persistence for worker profiles and their clock state. The
  schema is document-oriented: the weekly schedule, rest days, and day
  logs are stored as JSON columns, matching the store contract of a
  key-value/document backend.

KEY TABLES:
  workers:       One row per worker profile. Money columns are TEXT,
                 parsed with shopspring/decimal.
  worker_states: One row per worker, holding the current day and history
                 as JSON plus the optimistic revision counter.

OPTIMISTIC CONCURRENCY:
  SaveWorkerState updates the row only when the stored revision equals
  the caller's. A mismatched revision means another client wrote first;
  the save fails with clock.ErrConcurrentModification and the caller must
  reload before retrying.

WAL MODE:
  The database is opened with WAL so readers never block the single
  writer and crash recovery is cheap.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a versioned
  migration tool instead.

SEE ALSO:
  - clock/store.go: interface definition and revision semantics
  - clock/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/timeclock/clock"
)

// Store implements clock.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		pin TEXT NOT NULL,
		payment_type TEXT NOT NULL,
		monthly_salary TEXT NOT NULL,
		hourly_rate TEXT NOT NULL,
		schedule_json TEXT NOT NULL,
		rest_days_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS worker_states (
		worker_id TEXT PRIMARY KEY,
		current_day_json TEXT,
		history_json TEXT NOT NULL,
		revision INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

var _ clock.Store = (*Store)(nil)

// =============================================================================
// WORKERS
// =============================================================================

func (s *Store) LoadWorkers(ctx context.Context) ([]clock.Worker, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, pin, payment_type, monthly_salary, hourly_rate,
		       schedule_json, rest_days_json
		FROM workers ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []clock.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, *w)
	}
	return workers, rows.Err()
}

func (s *Store) GetWorker(ctx context.Context, id clock.WorkerID) (*clock.Worker, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, pin, payment_type, monthly_salary, hourly_rate,
		       schedule_json, rest_days_json
		FROM workers WHERE id = ?`, string(id))
	w, err := scanWorker(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, clock.ErrWorkerNotFound
	}
	return w, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorker(row rowScanner) (*clock.Worker, error) {
	var (
		w            clock.Worker
		id, payment  string
		salary, rate string
		scheduleJSON string
		restDaysJSON string
	)
	if err := row.Scan(&id, &w.Name, &w.PIN, &payment, &salary, &rate, &scheduleJSON, &restDaysJSON); err != nil {
		return nil, err
	}
	w.ID = clock.WorkerID(id)
	w.PaymentType = clock.PaymentType(payment)

	var err error
	if w.MonthlySalary, err = decimal.NewFromString(salary); err != nil {
		return nil, fmt.Errorf("worker %s: bad monthly_salary: %w", id, err)
	}
	if w.HourlyRate, err = decimal.NewFromString(rate); err != nil {
		return nil, fmt.Errorf("worker %s: bad hourly_rate: %w", id, err)
	}
	if err = json.Unmarshal([]byte(scheduleJSON), &w.Schedule); err != nil {
		return nil, fmt.Errorf("worker %s: bad schedule: %w", id, err)
	}
	if err = json.Unmarshal([]byte(restDaysJSON), &w.RestDays); err != nil {
		return nil, fmt.Errorf("worker %s: bad rest days: %w", id, err)
	}
	return &w, nil
}

func (s *Store) SaveWorker(ctx context.Context, w clock.Worker) error {
	scheduleJSON, err := json.Marshal(w.Schedule)
	if err != nil {
		return err
	}
	restDays := w.RestDays
	if restDays == nil {
		restDays = []clock.Date{}
	}
	restDaysJSON, err := json.Marshal(restDays)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workers (id, name, pin, payment_type, monthly_salary,
		                     hourly_rate, schedule_json, rest_days_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			pin = excluded.pin,
			payment_type = excluded.payment_type,
			monthly_salary = excluded.monthly_salary,
			hourly_rate = excluded.hourly_rate,
			schedule_json = excluded.schedule_json,
			rest_days_json = excluded.rest_days_json`,
		string(w.ID), w.Name, w.PIN, string(w.PaymentType),
		w.MonthlySalary.String(), w.HourlyRate.String(),
		string(scheduleJSON), string(restDaysJSON),
		time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func (s *Store) DeleteWorker(ctx context.Context, id clock.WorkerID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM workers WHERE id = ?`, string(id))
	return err
}

// =============================================================================
// WORKER STATE
// =============================================================================

func (s *Store) LoadWorkerState(ctx context.Context, id clock.WorkerID) (*clock.WorkerState, error) {
	var (
		currentJSON sql.NullString
		historyJSON string
		revision    int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT current_day_json, history_json, revision
		FROM worker_states WHERE worker_id = ?`, string(id)).
		Scan(&currentJSON, &historyJSON, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, clock.ErrStateNotFound
	}
	if err != nil {
		return nil, err
	}

	st := &clock.WorkerState{Revision: revision}
	if currentJSON.Valid && currentJSON.String != "" {
		var day clock.DayLog
		if err := json.Unmarshal([]byte(currentJSON.String), &day); err != nil {
			return nil, fmt.Errorf("state %s: bad current day: %w", id, err)
		}
		st.CurrentDay = &day
	}
	if err := json.Unmarshal([]byte(historyJSON), &st.History); err != nil {
		return nil, fmt.Errorf("state %s: bad history: %w", id, err)
	}
	return st, nil
}

// SaveWorkerState writes state under the optimistic revision check: the
// row is only touched when the stored revision matches st.Revision.
func (s *Store) SaveWorkerState(ctx context.Context, id clock.WorkerID, st *clock.WorkerState) error {
	var currentJSON any
	if st.CurrentDay != nil {
		b, err := json.Marshal(st.CurrentDay)
		if err != nil {
			return err
		}
		currentJSON = string(b)
	}
	history := st.History
	if history == nil {
		history = []clock.DayLog{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var stored int64
	err = tx.QueryRowContext(ctx,
		`SELECT revision FROM worker_states WHERE worker_id = ?`, string(id)).
		Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if st.Revision != 0 {
			return clock.ErrConcurrentModification
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO worker_states (worker_id, current_day_json, history_json, revision, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			string(id), currentJSON, string(historyJSON), st.Revision+1, now)
	case err != nil:
		return err
	case stored != st.Revision:
		return clock.ErrConcurrentModification
	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE worker_states
			SET current_day_json = ?, history_json = ?, revision = ?, updated_at = ?
			WHERE worker_id = ? AND revision = ?`,
			currentJSON, string(historyJSON), st.Revision+1, now, string(id), st.Revision)
	}
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	st.Revision++
	return nil
}

func (s *Store) DeleteWorkerState(ctx context.Context, id clock.WorkerID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM worker_states WHERE worker_id = ?`, string(id))
	return err
}
