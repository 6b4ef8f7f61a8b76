// Package store is the persistence gateway: a durable key-value store
// holding last-read positions, positional pins, and reading preferences,
// keyed by document fingerprint. Reads degrade to defaults on any failure
// and writes are best effort; durability here is a convenience, never a
// correctness requirement of a reading session.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Record namespaces.
const (
	nsBookmark = "bookmark"
	nsPins     = "pins"
	nsSettings = "settings"
)

// settingsKey is the single global key for the settings record.
const settingsKey = "global"

// settleInterval is how long a position must rest before a debounced
// bookmark write becomes durable.
const settleInterval = 2 * time.Second

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
	ns         TEXT NOT NULL,
	k          TEXT NOT NULL,
	v          BLOB NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (ns, k)
);
`

// Store is the SQLite-backed persistence gateway.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	mu        sync.Mutex
	timer     *time.Timer
	pendingFP string
	pending   Bookmark
}

// Open opens (or creates) the store database and applies the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}, nil
}

// Close flushes any pending bookmark write and closes the database.
func (s *Store) Close() error {
	s.Flush()
	return s.db.Close()
}

// get returns the stored value for (ns, k), or nil when absent or
// unreadable. Malformed storage is treated identically to absent data.
func (s *Store) get(ns, k string) []byte {
	var v []byte
	err := s.db.QueryRow(`SELECT v FROM kv WHERE ns = ? AND k = ?`, ns, k).Scan(&v)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Warn("store: read failed", slog.String("ns", ns), slog.String("error", err.Error()))
		}
		return nil
	}
	return v
}

// put stores a value best-effort. A failed write is logged and swallowed:
// losing a bookmark degrades resume, it does not break reading.
func (s *Store) put(ns, k string, v []byte) {
	_, err := s.db.Exec(
		`INSERT INTO kv (ns, k, v, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(ns, k) DO UPDATE SET v = excluded.v, updated_at = CURRENT_TIMESTAMP`,
		ns, k, v)
	if err != nil {
		s.logger.Warn("store: write failed", slog.String("ns", ns), slog.String("error", err.Error()))
	}
}

func (s *Store) del(ns, k string) {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE ns = ? AND k = ?`, ns, k); err != nil {
		s.logger.Warn("store: delete failed", slog.String("ns", ns), slog.String("error", err.Error()))
	}
}

// Bookmark returns the stored bookmark for a fingerprint.
func (s *Store) Bookmark(fp string) (Bookmark, bool) {
	raw := s.get(nsBookmark, fp)
	if raw == nil {
		return Bookmark{}, false
	}
	var b Bookmark
	if err := json.Unmarshal(raw, &b); err != nil || b.Total <= 0 {
		return Bookmark{}, false
	}
	return b, true
}

// SaveBookmark writes a bookmark immediately.
func (s *Store) SaveBookmark(fp string, b Bookmark) {
	raw, err := json.Marshal(b)
	if err != nil {
		return
	}
	s.put(nsBookmark, fp, raw)
}

// QueueBookmark records a bookmark to be written once the position has
// rested for the settling interval. Rapid successive position changes
// coalesce into a single durable write.
func (s *Store) QueueBookmark(fp string, b Bookmark) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingFP = fp
	s.pending = b
	if s.timer != nil {
		s.timer.Reset(settleInterval)
		return
	}
	s.timer = time.AfterFunc(settleInterval, s.Flush)
}

// Flush writes any pending debounced bookmark immediately. Safe to call
// at any time, including when nothing is pending.
func (s *Store) Flush() {
	s.mu.Lock()
	fp, b := s.pendingFP, s.pending
	s.pendingFP = ""
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	if fp != "" {
		s.SaveBookmark(fp, b)
	}
}

// ClearBookmark removes the stored bookmark for a fingerprint, dropping
// any pending debounced write for it as well.
func (s *Store) ClearBookmark(fp string) {
	s.mu.Lock()
	if s.pendingFP == fp {
		s.pendingFP = ""
		if s.timer != nil {
			s.timer.Stop()
		}
	}
	s.mu.Unlock()
	s.del(nsBookmark, fp)
}

// Pins returns the stored pins for a fingerprint, in ordinal order.
func (s *Store) Pins(fp string) []Pin {
	raw := s.get(nsPins, fp)
	if raw == nil {
		return nil
	}
	var pins []Pin
	if err := json.Unmarshal(raw, &pins); err != nil {
		return nil
	}
	return pins
}

// AddPin stores a new pin unless an existing pin sits within the minimum
// gap. Reports whether the pin was added.
func (s *Store) AddPin(fp string, p Pin) bool {
	pins, added := insertPin(s.Pins(fp), p)
	if !added {
		return false
	}
	raw, err := json.Marshal(pins)
	if err != nil {
		return false
	}
	s.put(nsPins, fp, raw)
	return true
}

// HasSettings reports whether a settings record has ever been saved.
// Used once at startup to decide whether config-file defaults apply.
func (s *Store) HasSettings() bool {
	return s.get(nsSettings, settingsKey) != nil
}

// Settings loads the process-wide settings record, degrading field by
// field to defaults on missing or malformed data.
func (s *Store) Settings() Settings {
	raw := s.get(nsSettings, settingsKey)
	if raw == nil {
		return DefaultSettings()
	}
	return decodeSettings(raw)
}

// SaveSettings persists the settings record, normalizing it first.
func (s *Store) SaveSettings(set Settings) {
	set.Normalize()
	raw, err := json.Marshal(set)
	if err != nil {
		return
	}
	s.put(nsSettings, settingsKey, raw)
}
