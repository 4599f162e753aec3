// Package journal stores REPL transcripts in SQLite so sessions can be
// listed and replayed.
package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"
)

// ErrSessionNotFound indicates the requested session doesn't exist
var ErrSessionNotFound = errors.New("session not found")

var log = commonlog.GetLogger("ruchy.journal")

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	workdir    TEXT NOT NULL,
	started_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS entries (
	session_id TEXT NOT NULL REFERENCES sessions(id),
	seq        INTEGER NOT NULL,
	input      TEXT NOT NULL,
	output     TEXT NOT NULL,
	is_error   INTEGER NOT NULL,
	at         INTEGER NOT NULL,
	PRIMARY KEY (session_id, seq)
);`

// Session is one recorded REPL run.
type Session struct {
	ID        string
	Workdir   string
	StartedAt time.Time
	Entries   int
}

// Entry is one evaluated line and what it printed.
type Entry struct {
	SessionID string
	Seq       int
	Input     string
	Output    string
	IsError   bool
	At        time.Time
}

// Journal is a transcript store. It is safe for concurrent use.
type Journal struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
	// now is replaced in tests.
	now func() time.Time
}

// Open opens or creates the journal database at path. ":memory:" gives a
// private in-memory journal.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	// One connection: an in-memory database is per connection, and
	// SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	log.Debugf("journal opened at %s", path)
	return &Journal{db: db, path: path, now: time.Now}, nil
}

func (j *Journal) Path() string { return j.path }

// StartSession registers a new session and returns its id.
func (j *Journal) StartSession(workdir string) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	id := uuid.NewString()
	if _, err := j.db.Exec(
		"INSERT INTO sessions (id, workdir, started_at) VALUES (?, ?, ?)",
		id, workdir, j.now().UnixNano(),
	); err != nil {
		return "", fmt.Errorf("starting session: %w", err)
	}
	log.Infof("journal session %s started", id)
	return id, nil
}

// Record appends one entry to a session.
func (j *Journal) Record(sessionID, input, output string, isError bool) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("recording entry: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow("SELECT COUNT(*) FROM sessions WHERE id = ?", sessionID).Scan(&exists); err != nil {
		return fmt.Errorf("recording entry: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	var seq int
	if err := tx.QueryRow("SELECT COALESCE(MAX(seq), 0) + 1 FROM entries WHERE session_id = ?", sessionID).Scan(&seq); err != nil {
		return fmt.Errorf("recording entry: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO entries (session_id, seq, input, output, is_error, at) VALUES (?, ?, ?, ?, ?, ?)",
		sessionID, seq, input, output, boolInt(isError), j.now().UnixNano(),
	); err != nil {
		return fmt.Errorf("recording entry: %w", err)
	}
	return tx.Commit()
}

// Entries returns a session's entries in the order they were recorded.
func (j *Journal) Entries(sessionID string) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var found int
	if err := j.db.QueryRow("SELECT COUNT(*) FROM sessions WHERE id = ?", sessionID).Scan(&found); err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	if found == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	rows, err := j.db.Query(
		"SELECT seq, input, output, is_error, at FROM entries WHERE session_id = ? ORDER BY seq",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		en := Entry{SessionID: sessionID}
		var isErr int
		var at int64
		if err := rows.Scan(&en.Seq, &en.Input, &en.Output, &isErr, &at); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		en.IsError = isErr != 0
		en.At = time.Unix(0, at)
		out = append(out, en)
	}
	return out, rows.Err()
}

// Sessions lists all sessions, newest first.
func (j *Journal) Sessions() ([]Session, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rows, err := j.db.Query(`
		SELECT s.id, s.workdir, s.started_at, COUNT(e.seq)
		FROM sessions s LEFT JOIN entries e ON e.session_id = s.id
		GROUP BY s.id, s.workdir, s.started_at
		ORDER BY s.started_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var s Session
		var started int64
		if err := rows.Scan(&s.ID, &s.Workdir, &started, &s.Entries); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		s.StartedAt = time.Unix(0, started)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Close closes the database connection
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
