// Package audit keeps the history trails of rewriter runs in SQLite so merge
// and pass decisions can be inspected after the fact. Each run gets a UUID;
// every history event of the final collection is stored against it.
package audit

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mehulgecg/SwiftRewriter/pkg/intention"
)

// ErrRunNotFound indicates the requested run is not in the database.
var ErrRunNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	units INTEGER NOT NULL,
	failed INTEGER NOT NULL,
	errors INTEGER NOT NULL,
	fingerprint TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	run_id TEXT NOT NULL REFERENCES runs(id),
	seq INTEGER NOT NULL,
	data JSON NOT NULL,
	PRIMARY KEY (run_id, seq)
);`

// Run summarizes one rewriter run.
type Run struct {
	ID          uuid.UUID
	StartedAt   time.Time
	Units       int
	Failed      int // units with error diagnostics
	Errors      int // translation steps aborted by a fault
	Fingerprint uint64
}

// Entry is one stored history event.
type Entry struct {
	File        string `json:"file"`
	Owner       string `json:"owner"`
	Tag         string `json:"tag"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// Store is an open audit database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the audit database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Record stores run and every history event of c in one transaction.
func (s *Store) Record(run Run, c *intention.Collection) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO runs (id, started_at, units, failed, errors, fingerprint) VALUES (?, ?, ?, ?, ?, ?)",
		run.ID.String(), run.StartedAt.UTC().Format(time.RFC3339Nano), run.Units, run.Failed, run.Errors,
		strconv.FormatUint(run.Fingerprint, 16),
	)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO events (run_id, seq, data) VALUES (?, ?, json(?))")
	if err != nil {
		return fmt.Errorf("preparing event insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range Entries(c) {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshaling event: %w", err)
		}
		if _, err := stmt.Exec(run.ID.String(), i, string(data)); err != nil {
			return fmt.Errorf("saving event: %w", err)
		}
	}
	return tx.Commit()
}

// Runs lists stored runs, oldest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query("SELECT id, started_at, units, failed, errors, fingerprint FROM runs ORDER BY started_at, id")
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadRun returns the run with id.
func (s *Store) LoadRun(id uuid.UUID) (Run, error) {
	row := s.db.QueryRow("SELECT id, started_at, units, failed, errors, fingerprint FROM runs WHERE id = ?", id.String())
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return r, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r           Run
		id, started string
		fp          string
	)
	if err := sc.Scan(&id, &started, &r.Units, &r.Failed, &r.Errors, &fp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	var err error
	if r.ID, err = uuid.Parse(id); err != nil {
		return Run{}, fmt.Errorf("bad run id %q: %w", id, err)
	}
	if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return Run{}, fmt.Errorf("bad start time %q: %w", started, err)
	}
	if r.Fingerprint, err = strconv.ParseUint(fp, 16, 64); err != nil {
		return Run{}, fmt.Errorf("bad fingerprint %q: %w", fp, err)
	}
	return r, nil
}

// Events returns the events of a run in recording order. A non-empty tag
// keeps only events produced by that pass.
func (s *Store) Events(run uuid.UUID, tag string) ([]Entry, error) {
	query := "SELECT data FROM events WHERE run_id = ?"
	args := []interface{}{run.String()}
	if tag != "" {
		query += " AND json_extract(data, '$.tag') = ?"
		args = append(args, tag)
	}
	rows, err := s.db.Query(query+" ORDER BY seq", args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		var e Entry
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return nil, fmt.Errorf("unmarshaling event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Entries flattens every history trail of c, file by file in collection
// order and declaration order within a file. Creation events are skipped.
func Entries(c *intention.Collection) []Entry {
	var out []Entry
	for _, f := range c.Files() {
		add := func(owner string, h *intention.History) {
			for _, e := range h.Events() {
				if e.IsCreation() {
					continue
				}
				out = append(out, Entry{
					File: f.TargetPath, Owner: owner, Tag: e.Tag, Kind: e.Kind.String(), Description: e.Description(),
				})
			}
		}
		add(f.TargetPath, f.History())
		for _, t := range f.Types() {
			add(t.Name, t.History())
			for _, p := range t.Properties() {
				add(t.Name+"."+p.Name, p.History())
			}
			for _, in := range t.Inits() {
				add(t.Name+"."+intention.FormatInit(in), in.History())
			}
			for _, m := range t.Methods() {
				add(intention.FormatMethod(t.Name, m), m.History())
			}
		}
		for _, g := range f.Functions() {
			add(intention.FormatFunction(g), g.History())
		}
		for _, v := range f.Variables() {
			add(v.Name, v.History())
		}
	}
	return out
}
