package maplog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "modernc.org/sqlite" // sqlite driver for database/sql
)

// SQLContainer is a Container[K, V] backed by a SQLite table, fronted by an
// LRU read cache. Keys are stored under their canonical JSON encoding (so
// any comparable K works, not just SQLite-native column types); values are
// stored as JSON blobs in a single keyed entry table (WAL journal,
// synchronous=FULL); each Insert/Remove is one autocommitted statement.
// It is an optional container backend alongside the hash and sorted
// ones.
type SQLContainer[K comparable, V any] struct {
	db    *sql.DB
	cache *lru.Cache[string, V]
}

// NewSQLContainer opens/creates a SQLite database at dsn and ensures its
// schema and PRAGMAs, fronting reads with an LRU cache of cacheSize
// entries (0 disables caching).
func NewSQLContainer[K comparable, V any](dsn string, cacheSize int) (*SQLContainer[K, V], error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=FULL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}
	const schema = `
CREATE TABLE IF NOT EXISTS entries (
  key_text   TEXT PRIMARY KEY,
  value_blob BLOB NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	var cache *lru.Cache[string, V]
	if cacheSize > 0 {
		cache, err = lru.New[string, V](cacheSize)
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	return &SQLContainer[K, V]{db: db, cache: cache}, nil
}

// Close closes the underlying database handle.
func (c *SQLContainer[K, V]) Close() error { return c.db.Close() }

func encodeSQLKey[K any](key K) (string, error) {
	b, err := json.Marshal(key)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Get returns the value for key and whether it was present, checking the
// LRU cache before falling back to the database.
func (c *SQLContainer[K, V]) Get(key K) (V, bool) {
	var zero V
	keyText, err := encodeSQLKey(key)
	if err != nil {
		return zero, false
	}
	if c.cache != nil {
		if v, ok := c.cache.Get(keyText); ok {
			return v, true
		}
	}
	v, ok, err := c.load(keyText)
	if err != nil || !ok {
		return zero, false
	}
	if c.cache != nil {
		c.cache.Add(keyText, v)
	}
	return v, true
}

// GetMut returns a pointer to a detached copy of the value for key.
// Mutating through the pointer does not affect the container; call Insert
// to persist a change.
func (c *SQLContainer[K, V]) GetMut(key K) (*V, bool) {
	v, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	return &v, true
}

func (c *SQLContainer[K, V]) load(keyText string) (V, bool, error) {
	var zero V
	var blob []byte
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := c.db.QueryRowContext(ctx, `SELECT value_blob FROM entries WHERE key_text = ?`, keyText).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	var v V
	if err := json.Unmarshal(blob, &v); err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Insert stores value under key, returning the previous value if any.
func (c *SQLContainer[K, V]) Insert(key K, value V) (V, bool) {
	var zero V
	keyText, err := encodeSQLKey(key)
	if err != nil {
		return zero, false
	}
	old, hadOld, _ := c.load(keyText)

	blob, err := json.Marshal(value)
	if err != nil {
		return zero, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO entries(key_text, value_blob) VALUES(?, ?)
		 ON CONFLICT(key_text) DO UPDATE SET value_blob=excluded.value_blob`,
		keyText, blob)
	if err != nil {
		return zero, false
	}
	if c.cache != nil {
		c.cache.Add(keyText, value)
	}
	return old, hadOld
}

// Remove deletes key, returning its value if it was present.
func (c *SQLContainer[K, V]) Remove(key K) (V, bool) {
	var zero V
	keyText, err := encodeSQLKey(key)
	if err != nil {
		return zero, false
	}
	old, hadOld, _ := c.load(keyText)
	if !hadOld {
		return zero, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := c.db.ExecContext(ctx, `DELETE FROM entries WHERE key_text = ?`, keyText); err != nil {
		return zero, false
	}
	if c.cache != nil {
		c.cache.Remove(keyText)
	}
	return old, true
}

// ForEach visits every entry in ascending key_text order. The visit
// function must not mutate the container.
func (c *SQLContainer[K, V]) ForEach(visit func(key K, value V)) {
	rows, err := c.db.Query(`SELECT key_text, value_blob FROM entries ORDER BY key_text ASC`)
	if err != nil {
		return
	}
	defer rows.Close()
	for rows.Next() {
		var keyText string
		var blob []byte
		if err := rows.Scan(&keyText, &blob); err != nil {
			return
		}
		var key K
		var value V
		if err := json.Unmarshal([]byte(keyText), &key); err != nil {
			continue
		}
		if err := json.Unmarshal(blob, &value); err != nil {
			continue
		}
		visit(key, value)
	}
}

// Len returns the number of entries currently stored.
func (c *SQLContainer[K, V]) Len() int {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0
	}
	return n
}
