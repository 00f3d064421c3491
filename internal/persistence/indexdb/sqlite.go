package indexdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteIndex is a read-model of session activity: which tools ran, what XP
// they earned, when sessions started and ended. It never feeds back into the
// game state; dropping the file loses history, not the pet.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqToolUse reqKind = iota + 1
	reqSession
)

type req struct {
	kind reqKind

	tool string
	xp   int

	sessionActive bool
	sessionSource string
}

func Open(path string) (*SQLiteIndex, error) {
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
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	idx := &SQLiteIndex{
		db: db,
		ch: make(chan req, 256),
	}
	idx.wg.Add(1)
	go idx.writer()
	return idx, nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tool_usage (
			tool TEXT PRIMARY KEY,
			uses INTEGER NOT NULL DEFAULT 0,
			xp   INTEGER NOT NULL DEFAULT 0,
			last_used TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			ended_at   TEXT,
			source     TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// RecordToolUse enqueues one completed tool run. Drops the row rather than
// blocking the engine when the writer is behind.
func (s *SQLiteIndex) RecordToolUse(tool string, xp int) {
	s.enqueue(req{kind: reqToolUse, tool: tool, xp: xp})
}

// RecordSession enqueues a session boundary.
func (s *SQLiteIndex) RecordSession(active bool, source string) {
	s.enqueue(req{kind: reqSession, sessionActive: active, sessionSource: source})
}

func (s *SQLiteIndex) enqueue(r req) {
	if s.closed.Load() {
		return
	}
	select {
	case s.ch <- r:
	default:
	}
}

func (s *SQLiteIndex) writer() {
	defer s.wg.Done()
	for r := range s.ch {
		now := time.Now().UTC().Format(time.RFC3339)
		switch r.kind {
		case reqToolUse:
			_, _ = s.db.Exec(`INSERT INTO tool_usage (tool, uses, xp, last_used)
				VALUES (?, 1, ?, ?)
				ON CONFLICT(tool) DO UPDATE SET
					uses = uses + 1,
					xp = xp + excluded.xp,
					last_used = excluded.last_used`,
				r.tool, r.xp, now)
		case reqSession:
			if r.sessionActive {
				_, _ = s.db.Exec(`INSERT INTO sessions (started_at, source) VALUES (?, ?)`,
					now, r.sessionSource)
			} else {
				_, _ = s.db.Exec(`UPDATE sessions SET ended_at = ?
					WHERE id = (SELECT MAX(id) FROM sessions WHERE ended_at IS NULL)`,
					now)
			}
		}
	}
}

// ToolTotals reads back aggregate use counts per tool.
func (s *SQLiteIndex) ToolTotals() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT tool, uses FROM tool_usage`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	totals := make(map[string]int)
	for rows.Next() {
		var tool string
		var uses int
		if err := rows.Scan(&tool, &uses); err != nil {
			return nil, err
		}
		totals[tool] = uses
	}
	return totals, rows.Err()
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}
