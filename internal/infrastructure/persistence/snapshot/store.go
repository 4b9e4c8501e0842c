// Package snapshot provides the key-value store behind the periodic
// registry snapshot: a small get/set/clear capability so the registry
// logic stays storage-agnostic.
package snapshot

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jdmarc/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/jdmarc/leadpulse-go/internal/infrastructure/persistence/database"
	"github.com/jdmarc/leadpulse-go/pkg/config"
)

// Store is the persistence capability the snapshot service depends on.
// Get returns nil with no error when the key has never been written.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Clear(key string) error
}

// SQLStore is the SQL-backed implementation of Store, keeping snapshots in
// a single kv table. Writes overwrite the previous value; last writer wins.
type SQLStore struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLStore creates the store and its backing table if needed.
func NewSQLStore(db *database.DB, logger *logging.ChanneledLogger) (*SQLStore, error) {
	const ddl = `
		CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`

	if _, err := db.Exec(ddl); err != nil {
		if logger != nil {
			logger.Database().Error("Failed to create snapshots table", "error", err.Error())
		}
		return nil, fmt.Errorf("failed to create snapshots table: %w", err)
	}

	return &SQLStore{db: db, logger: logger}, nil
}

// Get retrieves the stored value for a key, or nil if absent.
func (s *SQLStore) Get(key string) ([]byte, error) {
	const query = `SELECT value FROM snapshots WHERE key = ?`

	start := time.Now()
	var value string
	err := s.db.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		if s.logger != nil {
			s.logger.Database().Debug("Snapshot not found", "key", key, "duration", time.Since(start))
		}
		return nil, nil
	}
	if err != nil {
		if s.logger != nil {
			s.logger.Database().Error("Snapshot load failed", "error", err.Error(), "key", key)
		}
		return nil, err
	}

	if s.logger != nil {
		s.logger.Database().Debug("Snapshot loaded", "key", key, "bytes", len(value), "duration", time.Since(start))
	}
	s.noteSlow(query, time.Since(start))
	return []byte(value), nil
}

// Set stores a value under a key, replacing any previous value.
func (s *SQLStore) Set(key string, value []byte) error {
	const query = `
		INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	start := time.Now()
	_, err := s.db.Exec(query, key, string(value), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		if s.logger != nil {
			s.logger.Database().Error("Snapshot write failed", "error", err.Error(), "key", key)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Database().Debug("Snapshot written", "key", key, "bytes", len(value), "duration", time.Since(start))
	}
	s.noteSlow(query, time.Since(start))
	return nil
}

// Clear removes a key. Clearing an absent key is not an error.
func (s *SQLStore) Clear(key string) error {
	const query = `DELETE FROM snapshots WHERE key = ?`

	_, err := s.db.Exec(query, key)
	if err != nil {
		if s.logger != nil {
			s.logger.Database().Error("Snapshot clear failed", "error", err.Error(), "key", key)
		}
		return err
	}
	return nil
}

func (s *SQLStore) noteSlow(query string, duration time.Duration) {
	if s.logger != nil && duration > config.SlowQueryThreshold {
		s.logger.LogSlowQuery(query, duration)
	}
}
