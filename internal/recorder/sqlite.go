package recorder

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"

	"RainSentinel/internal/model"
)

// SQLiteRecorder persists run history and fetched daily values to SQLite.
type SQLiteRecorder struct {
	db    *sql.DB
	mu    sync.Mutex
	clock clockwork.Clock
	log   *slog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, clock clockwork.Clock, log *slog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, clock: clock, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Debug("sqlite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS report_runs (
			id            TEXT PRIMARY KEY,
			timestamp     INTEGER NOT NULL,
			station_id    TEXT NOT NULL,
			station_name  TEXT,
			start_date    TEXT NOT NULL,
			end_date      TEXT NOT NULL,
			output        TEXT,
			record_count  INTEGER,
			season_total  REAL,
			rainy_days    INTEGER,
			emailed_to    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON report_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS daily_precipitation (
			station_id       TEXT NOT NULL,
			date             TEXT NOT NULL,
			precipitation_in REAL NOT NULL,
			fetched_at       INTEGER NOT NULL,
			PRIMARY KEY (station_id, date)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun inserts a run. An empty ID gets a fresh UUID.
func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	ts := run.StartedAt
	if ts.IsZero() {
		ts = r.clock.Now()
	}

	_, err := r.db.Exec(`INSERT INTO report_runs
		(id, timestamp, station_id, station_name, start_date, end_date,
		 output, record_count, season_total, rainy_days, emailed_to)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		run.ID, ts.Unix(), run.Station.ID, run.Station.Name,
		run.Window.Start.Format(model.DateLayout), run.Window.End.Format(model.DateLayout),
		string(run.Output), run.RecordCount, run.SeasonTotal, run.RainyDays, run.EmailedTo,
	)
	return err
}

// RecordDaily archives the station's daily values; a later fetch overwrites an
// earlier one for the same date.
func (r *SQLiteRecorder) RecordDaily(station model.Station, records []model.DailyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO daily_precipitation
		(station_id, date, precipitation_in, fetched_at) VALUES (?,?,?,?)
		ON CONFLICT(station_id, date) DO UPDATE SET
			precipitation_in = excluded.precipitation_in,
			fetched_at = excluded.fetched_at`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := r.clock.Now().Unix()
	for _, rec := range records {
		if _, err := stmt.Exec(station.ID, rec.Date.Format(model.DateLayout), rec.PrecipitationIn, now); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Debug("closing sqlite recorder")
	return r.db.Close()
}
