package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// timeFormat sorts lexicographically in time order.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite stores records in a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scenes (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			test INTEGER NOT NULL,
			seed TEXT NOT NULL,
			attempts INTEGER NOT NULL,
			items_json TEXT NOT NULL,
			angles_json TEXT NOT NULL,
			outputs_json TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS scenes_run ON scenes (run_id, test);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Put implements Store.
func (s *SQLite) Put(ctx context.Context, rec Record) error {
	items, err := json.Marshal(rec.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	angles, err := json.Marshal(rec.Angles)
	if err != nil {
		return fmt.Errorf("encode angles: %w", err)
	}
	outputs, err := json.Marshal(rec.Outputs)
	if err != nil {
		return fmt.Errorf("encode outputs: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO scenes
		(id, run_id, test, seed, attempts, items_json, angles_json, outputs_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.RunID.String(), rec.Test, strconv.FormatUint(rec.Seed, 10), rec.Attempts,
		string(items), string(angles), string(outputs), rec.CreatedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("insert scene %d: %w", rec.Test, err)
	}
	return nil
}

// List implements Store.
func (s *SQLite) List(ctx context.Context, runID uuid.UUID) ([]Record, error) {
	q := `SELECT id, run_id, test, seed, attempts, items_json, angles_json, outputs_json, created_at FROM scenes`
	var args []any
	if runID != uuid.Nil {
		q += ` WHERE run_id = ?`
		args = append(args, runID.String())
	}
	q += ` ORDER BY created_at, run_id, test`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query scenes: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		rec                    Record
		id, run, seed, created string
		items, angles, outputs string
	)
	if err := rows.Scan(&id, &run, &rec.Test, &seed, &rec.Attempts, &items, &angles, &outputs, &created); err != nil {
		return Record{}, err
	}

	var err error
	if rec.ID, err = uuid.Parse(id); err != nil {
		return Record{}, fmt.Errorf("scene id: %w", err)
	}
	if rec.RunID, err = uuid.Parse(run); err != nil {
		return Record{}, fmt.Errorf("scene run id: %w", err)
	}
	if rec.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return Record{}, fmt.Errorf("scene seed: %w", err)
	}
	if rec.CreatedAt, err = time.Parse(timeFormat, created); err != nil {
		return Record{}, fmt.Errorf("scene created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(items), &rec.Items); err != nil {
		return Record{}, fmt.Errorf("decode items: %w", err)
	}
	if err := json.Unmarshal([]byte(angles), &rec.Angles); err != nil {
		return Record{}, fmt.Errorf("decode angles: %w", err)
	}
	if err := json.Unmarshal([]byte(outputs), &rec.Outputs); err != nil {
		return Record{}, fmt.Errorf("decode outputs: %w", err)
	}
	return rec, nil
}

// Close implements Store.
func (s *SQLite) Close() error {
	return s.db.Close()
}
