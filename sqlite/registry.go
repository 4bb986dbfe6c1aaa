package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/docwatch"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docwatch.RegistryService = (*RegistryService)(nil)

// RegistryService implements docwatch.RegistryService using SQLite.
type RegistryService struct {
	db *DB
}

// NewRegistryService creates a new RegistryService.
func NewRegistryService(db *DB) *RegistryService {
	return &RegistryService{db: db}
}

// CreateEntry creates a new registry entry and assigns its ID.
func (s *RegistryService) CreateEntry(ctx context.Context, entry *docwatch.RegistryEntry) error {
	if entry.Type == "" {
		entry.Type = docwatch.TypeOther
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now().UTC()
	entry.UpdatedAt = entry.CreatedAt

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO registry_entries (id, title, doc_type, source_url, version_label, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Title, string(entry.Type), entry.SourceURL, entry.VersionLabel,
		formatNullableTime(entry.PublishedAt),
		entry.CreatedAt.Format(time.RFC3339), entry.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindEntryByID retrieves a registry entry by ID.
func (s *RegistryService) FindEntryByID(ctx context.Context, id string) (*docwatch.RegistryEntry, error) {
	var entry docwatch.RegistryEntry
	var docType string
	var publishedAt sql.NullString
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, doc_type, source_url, version_label, published_at, created_at, updated_at
		FROM registry_entries
		WHERE id = ?
	`, id).Scan(&entry.ID, &entry.Title, &docType, &entry.SourceURL, &entry.VersionLabel,
		&publishedAt, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, docwatch.Errorf(docwatch.ENOTFOUND, "registry entry not found")
	}
	if err != nil {
		return nil, err
	}

	entry.Type = docwatch.DocumentType(docType)
	if entry.PublishedAt, err = parseNullableTime(publishedAt, "published_at"); err != nil {
		return nil, err
	}
	if entry.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if entry.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &entry, nil
}

// UpdateEntry updates an existing registry entry.
func (s *RegistryService) UpdateEntry(ctx context.Context, id string, upd docwatch.RegistryEntryUpdate) (*docwatch.RegistryEntry, error) {
	entry, err := s.FindEntryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		entry.Title = *upd.Title
	}
	if upd.Type != nil {
		entry.Type = *upd.Type
	}
	if upd.SourceURL != nil {
		entry.SourceURL = *upd.SourceURL
	}
	if upd.VersionLabel != nil {
		entry.VersionLabel = *upd.VersionLabel
	}
	if upd.PublishedAt != nil {
		entry.PublishedAt = upd.PublishedAt
	}
	entry.UpdatedAt = time.Now().UTC()

	// Validate before persisting
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE registry_entries
		SET title = ?, doc_type = ?, source_url = ?, version_label = ?, published_at = ?, updated_at = ?
		WHERE id = ?
	`, entry.Title, string(entry.Type), entry.SourceURL, entry.VersionLabel,
		formatNullableTime(entry.PublishedAt), entry.UpdatedAt.Format(time.RFC3339), id)
	if err != nil {
		return nil, err
	}

	return entry, nil
}
