package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/docwatch"
)

// Compile-time interface verification.
var _ docwatch.SettingsService = (*SettingsService)(nil)

// SettingsService implements docwatch.SettingsService using SQLite.
type SettingsService struct {
	db *DB
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(db *DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get retrieves the value for a key.
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM settings WHERE key = ?
	`, key).Scan(&value)

	if err == sql.ErrNoRows {
		return "", docwatch.Errorf(docwatch.ENOTFOUND, "setting %q not found", key)
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores the value for a key, overwriting any existing value.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *SettingsService) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	return err
}
