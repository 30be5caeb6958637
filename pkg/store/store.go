// Package store persists suggestion lists in SQLite so cached lookups
// survive restarts. It sits underneath the in-memory LRU as the optional
// second cache level.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

// Store is an exact-match suggestion cache backed by SQLite. Keys are hashes
// of the case-folded (word, left, right) tuple as produced by the caller.
type Store struct {
	db     *sql.DB
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

const createTable = `
CREATE TABLE IF NOT EXISTS suggestions (
	context_hash TEXT PRIMARY KEY,
	word TEXT NOT NULL,
	suggestions BLOB NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	ttl_seconds INTEGER NOT NULL
);
`

// Stats holds store counters.
type Stats struct {
	Entries int64
	Hits    int64
	Misses  int64
}

// Open creates or opens the store at dbPath with the given entry TTL.
func Open(dbPath string, ttl time.Duration) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open suggestion store: %w", err)
	}
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate suggestion store: %w", err)
	}
	return &Store{db: db, ttl: ttl}, nil
}

func hashContext(word, left, right string) string {
	h := sha256.New()
	h.Write([]byte(word))
	h.Write([]byte{0})
	h.Write([]byte(left))
	h.Write([]byte{0})
	h.Write([]byte(right))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Load implements suggest.Store. Expired rows count as misses.
func (s *Store) Load(word, left, right string) ([]string, bool) {
	var blob []byte
	var createdAt time.Time
	var ttlSeconds int64

	err := s.db.QueryRow(
		`SELECT suggestions, created_at, ttl_seconds FROM suggestions WHERE context_hash = ?`,
		hashContext(word, left, right),
	).Scan(&blob, &createdAt, &ttlSeconds)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Debugf("suggestion store read failed: %v", err)
		}
		s.misses.Add(1)
		return nil, false
	}

	if ttlSeconds > 0 && time.Since(createdAt) > time.Duration(ttlSeconds)*time.Second {
		s.misses.Add(1)
		return nil, false
	}

	var suggestions []string
	if err := json.Unmarshal(blob, &suggestions); err != nil {
		s.misses.Add(1)
		return nil, false
	}
	s.hits.Add(1)
	return suggestions, true
}

// Save implements suggest.Store.
func (s *Store) Save(word, left, right string, suggestions []string) error {
	blob, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("store save: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO suggestions (context_hash, word, suggestions, created_at, ttl_seconds)
		 VALUES (?, ?, ?, ?, ?)`,
		hashContext(word, left, right), word, blob, time.Now().UTC(), int64(s.ttl.Seconds()),
	)
	if err != nil {
		return fmt.Errorf("store save: %w", err)
	}
	return nil
}

// Stats returns entry and hit/miss counters.
func (s *Store) Stats() (Stats, error) {
	var count int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM suggestions`).Scan(&count); err != nil {
		return Stats{}, fmt.Errorf("store stats: %w", err)
	}
	return Stats{Entries: count, Hits: s.hits.Load(), Misses: s.misses.Load()}, nil
}

// Clear removes entries; only expired ones when expiredOnly is set.
func (s *Store) Clear(expiredOnly bool) error {
	query := `DELETE FROM suggestions`
	if expiredOnly {
		query = `DELETE FROM suggestions WHERE ttl_seconds > 0
			AND (julianday('now') - julianday(created_at)) * 86400 > ttl_seconds`
	}
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("store clear: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
