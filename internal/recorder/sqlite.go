package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists refresh history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS render_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			source      TEXT,
			points      INTEGER,
			first_date  INTEGER,
			last_date   INTEGER,
			last_close  REAL,
			svg_path    TEXT,
			bytes       INTEGER,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_render_ts ON render_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS load_failures (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			source    TEXT,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failure_ts ON load_failures(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRender(evt *RenderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO render_events
		(timestamp, source, points, first_date, last_date, last_close, svg_path, bytes, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Source, evt.Points,
		evt.FirstDate.Unix(), evt.LastDate.Unix(), evt.LastClose,
		evt.SVGPath, evt.Bytes, evt.Duration.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) RecordLoadFailure(evt *LoadFailure) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO load_failures (timestamp, source, error) VALUES (?,?,?)`,
		time.Now().Unix(), evt.Source, evt.Err,
	)
	return err
}

func (r *SQLiteRecorder) LastRender() (*RenderEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		evt         RenderEvent
		first, last int64
		durationMs  int64
	)
	err := r.db.QueryRow(`SELECT source, points, first_date, last_date, last_close, svg_path, bytes, duration_ms
		FROM render_events ORDER BY id DESC LIMIT 1`).
		Scan(&evt.Source, &evt.Points, &first, &last, &evt.LastClose, &evt.SVGPath, &evt.Bytes, &durationMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query last render: %w", err)
	}
	evt.FirstDate = time.Unix(first, 0).UTC()
	evt.LastDate = time.Unix(last, 0).UTC()
	evt.Duration = time.Duration(durationMs) * time.Millisecond
	return &evt, nil
}

// LoadFailures counts recorded failures.
func (r *SQLiteRecorder) LoadFailures() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM load_failures`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count load failures: %w", err)
	}
	return n, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
