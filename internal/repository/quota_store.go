package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/NiklavsD/Tikodea/internal/quota"
)

// SQLiteQuotaStore implements quota.Store over SQLite, one row per service.
type SQLiteQuotaStore struct {
	db *sql.DB
}

// NewSQLiteQuotaStore creates a SQLite-backed quota store.
func NewSQLiteQuotaStore(db *sql.DB) *SQLiteQuotaStore {
	return &SQLiteQuotaStore{db: db}
}

// Load returns the stored counter for a service.
func (s *SQLiteQuotaStore) Load(service string) (quota.Counter, bool, error) {
	var c quota.Counter
	err := s.db.QueryRow(
		`SELECT month, used, usage_limit FROM api_quota WHERE service = ?`, service,
	).Scan(&c.Month, &c.Used, &c.Limit)
	if errors.Is(err, sql.ErrNoRows) {
		return quota.Counter{}, false, nil
	}
	if err != nil {
		return quota.Counter{}, false, fmt.Errorf("load quota: %w", err)
	}

	return c, true, nil
}

// Save persists the counter for a service.
func (s *SQLiteQuotaStore) Save(service string, c quota.Counter) error {
	_, err := s.db.Exec(
		`INSERT INTO api_quota (service, month, used, usage_limit) VALUES (?, ?, ?, ?)
		 ON CONFLICT(service) DO UPDATE SET month = excluded.month,
		     used = excluded.used, usage_limit = excluded.usage_limit`,
		service, c.Month, c.Used, c.Limit,
	)
	if err != nil {
		return fmt.Errorf("save quota: %w", err)
	}

	return nil
}
