package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/docwatch"
)

// Compile-time interface verification.
var _ docwatch.TrackedDocumentService = (*TrackedDocumentService)(nil)

// TrackedDocumentService implements docwatch.TrackedDocumentService using
// SQLite.
type TrackedDocumentService struct {
	db *DB
}

// NewTrackedDocumentService creates a new TrackedDocumentService.
func NewTrackedDocumentService(db *DB) *TrackedDocumentService {
	return &TrackedDocumentService{db: db}
}

// CreateTrackedDocument creates a new tracked document.
func (s *TrackedDocumentService) CreateTrackedDocument(ctx context.Context, doc *docwatch.TrackedDocument) error {
	if doc.Status == "" {
		doc.Status = docwatch.StatusActive
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if doc.FirstSeenAt.IsZero() {
		doc.FirstSeenAt = now
	}
	if doc.LastCheckedAt.IsZero() {
		doc.LastCheckedAt = now
	}

	var registryID sql.NullString
	if doc.RegistryID != "" {
		registryID = sql.NullString{String: doc.RegistryID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tracked_documents (external_id, title, doc_type, external_url, registry_id,
			content_hash, version_label, published_at, first_seen_at, last_checked_at, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ExternalID, doc.Title, string(doc.Type), doc.ExternalURL, registryID,
		doc.ContentHash, doc.VersionLabel, formatNullableTime(doc.PublishedAt),
		doc.FirstSeenAt.Format(time.RFC3339), doc.LastCheckedAt.Format(time.RFC3339),
		string(doc.Status), doc.ErrorMessage)

	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return docwatch.Errorf(docwatch.ECONFLICT, "document %q already tracked", doc.ExternalID)
	}
	return err
}

// FindTrackedDocumentByExternalID retrieves a tracked document by its
// external ID.
func (s *TrackedDocumentService) FindTrackedDocumentByExternalID(ctx context.Context, externalID string) (*docwatch.TrackedDocument, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT external_id, title, doc_type, external_url, registry_id, content_hash,
			version_label, published_at, first_seen_at, last_checked_at, status, error_message
		FROM tracked_documents
		WHERE external_id = ?
	`, externalID)

	doc, err := scanTrackedDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, docwatch.Errorf(docwatch.ENOTFOUND, "tracked document not found")
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// FindTrackedDocuments retrieves tracked documents matching the filter.
func (s *TrackedDocumentService) FindTrackedDocuments(ctx context.Context, filter docwatch.TrackedDocumentFilter) ([]*docwatch.TrackedDocument, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT external_id, title, doc_type, external_url, registry_id, content_hash,
		version_label, published_at, first_seen_at, last_checked_at, status, error_message
		FROM tracked_documents WHERE 1=1`)

	if filter.ExternalID != nil {
		query.WriteString(" AND external_id = ?")
		args = append(args, *filter.ExternalID)
	}
	if filter.Type != nil {
		query.WriteString(" AND doc_type = ?")
		args = append(args, string(*filter.Type))
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}

	query.WriteString(" ORDER BY first_seen_at DESC, external_id")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*docwatch.TrackedDocument
	for rows.Next() {
		doc, err := scanTrackedDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// UpdateTrackedDocument updates an existing tracked document.
func (s *TrackedDocumentService) UpdateTrackedDocument(ctx context.Context, externalID string, upd docwatch.TrackedDocumentUpdate) (*docwatch.TrackedDocument, error) {
	doc, err := s.FindTrackedDocumentByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		doc.Title = *upd.Title
	}
	if upd.Type != nil {
		doc.Type = *upd.Type
	}
	if upd.ExternalURL != nil {
		doc.ExternalURL = *upd.ExternalURL
	}
	if upd.RegistryID != nil {
		doc.RegistryID = *upd.RegistryID
	}
	if upd.ContentHash != nil {
		doc.ContentHash = *upd.ContentHash
	}
	if upd.VersionLabel != nil {
		doc.VersionLabel = *upd.VersionLabel
	}
	if upd.PublishedAt != nil {
		doc.PublishedAt = upd.PublishedAt
	}
	if upd.LastCheckedAt != nil {
		doc.LastCheckedAt = *upd.LastCheckedAt
	}
	if upd.Status != nil {
		doc.Status = *upd.Status
	}
	if upd.ErrorMessage != nil {
		doc.ErrorMessage = *upd.ErrorMessage
	}

	// Validate before persisting
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	var registryID sql.NullString
	if doc.RegistryID != "" {
		registryID = sql.NullString{String: doc.RegistryID, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE tracked_documents
		SET title = ?, doc_type = ?, external_url = ?, registry_id = ?, content_hash = ?,
			version_label = ?, published_at = ?, last_checked_at = ?, status = ?, error_message = ?
		WHERE external_id = ?
	`, doc.Title, string(doc.Type), doc.ExternalURL, registryID, doc.ContentHash,
		doc.VersionLabel, formatNullableTime(doc.PublishedAt),
		doc.LastCheckedAt.UTC().Format(time.RFC3339), string(doc.Status), doc.ErrorMessage,
		externalID)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// Statistics returns aggregate statistics over the tracked document set.
func (s *TrackedDocumentService) Statistics(ctx context.Context) (*docwatch.Statistics, error) {
	stats := &docwatch.Statistics{
		ByType: make(map[docwatch.DocumentType]int),
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_type, COUNT(*) FROM tracked_documents GROUP BY doc_type
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var docType string
		var count int
		if err := rows.Scan(&docType, &count); err != nil {
			return nil, err
		}
		stats.ByType[docwatch.DocumentType(docType)] = count
		stats.TotalDocuments += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var lastChecked sql.NullString
	err = s.db.QueryRowContext(ctx, `
		SELECT MAX(last_checked_at) FROM tracked_documents
	`).Scan(&lastChecked)
	if err != nil {
		return nil, err
	}
	stats.LastUpdated, err = parseNullableTime(lastChecked, "last_checked_at")
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// scanTrackedDocument scans one tracked document row.
func scanTrackedDocument(scan func(dest ...any) error) (*docwatch.TrackedDocument, error) {
	var doc docwatch.TrackedDocument
	var docType, status string
	var registryID, publishedAt sql.NullString
	var firstSeenAt, lastCheckedAt string

	if err := scan(&doc.ExternalID, &doc.Title, &docType, &doc.ExternalURL, &registryID,
		&doc.ContentHash, &doc.VersionLabel, &publishedAt, &firstSeenAt, &lastCheckedAt,
		&status, &doc.ErrorMessage); err != nil {
		return nil, err
	}

	doc.Type = docwatch.DocumentType(docType)
	doc.Status = docwatch.DocumentStatus(status)
	if registryID.Valid {
		doc.RegistryID = registryID.String
	}

	var err error
	if doc.PublishedAt, err = parseNullableTime(publishedAt, "published_at"); err != nil {
		return nil, err
	}
	if doc.FirstSeenAt, err = parseRFC3339(firstSeenAt, "first_seen_at"); err != nil {
		return nil, err
	}
	if doc.LastCheckedAt, err = parseRFC3339(lastCheckedAt, "last_checked_at"); err != nil {
		return nil, err
	}

	return &doc, nil
}
