package docwatch

import (
	"context"
	"time"
)

// TrackedDocument is the persisted record of a document previously seen on
// the source site. It is created on first sighting of an external ID and
// updated on every run where the document is still listed. The watcher never
// deletes tracked documents; history is preserved and archival is manual.
type TrackedDocument struct {
	ExternalID   string       `json:"externalId"`
	Title        string       `json:"title"`
	Type         DocumentType `json:"type"`
	ExternalURL  string       `json:"externalUrl"`
	RegistryID   string       `json:"registryId"` // empty until first successful upsert
	ContentHash  string       `json:"contentHash"`
	VersionLabel string       `json:"versionLabel,omitempty"`
	PublishedAt  *time.Time   `json:"publishedAt,omitempty"`

	FirstSeenAt   time.Time `json:"firstSeenAt"`
	LastCheckedAt time.Time `json:"lastCheckedAt"`

	Status       DocumentStatus `json:"status"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
}

// Validate returns an error if the tracked document contains invalid fields.
func (d *TrackedDocument) Validate() error {
	if d.ExternalID == "" {
		return Errorf(EINVALID, "tracked document external ID required")
	}
	if d.ExternalURL == "" {
		return Errorf(EINVALID, "tracked document external URL required")
	}
	switch d.Status {
	case StatusActive, StatusArchived, StatusError:
	default:
		return Errorf(EINVALID, "invalid tracked document status %q", d.Status)
	}
	return nil
}

// Statistics summarizes the tracked document set.
type Statistics struct {
	TotalDocuments int                  `json:"totalDocuments"`
	ByType         map[DocumentType]int `json:"byType"`
	LastUpdated    *time.Time           `json:"lastUpdated"`
}

// TrackedDocumentService represents a service for managing tracked documents.
type TrackedDocumentService interface {
	// CreateTrackedDocument creates a new tracked document.
	// Returns ECONFLICT if the external ID is already tracked.
	CreateTrackedDocument(ctx context.Context, doc *TrackedDocument) error

	// FindTrackedDocumentByExternalID retrieves a tracked document by its
	// external ID. Returns ENOTFOUND if the document does not exist.
	FindTrackedDocumentByExternalID(ctx context.Context, externalID string) (*TrackedDocument, error)

	// FindTrackedDocuments retrieves tracked documents matching the filter.
	FindTrackedDocuments(ctx context.Context, filter TrackedDocumentFilter) ([]*TrackedDocument, error)

	// UpdateTrackedDocument updates an existing tracked document.
	// Returns ENOTFOUND if the document does not exist.
	UpdateTrackedDocument(ctx context.Context, externalID string, upd TrackedDocumentUpdate) (*TrackedDocument, error)

	// Statistics returns aggregate statistics over the tracked document set.
	Statistics(ctx context.Context) (*Statistics, error)
}

// TrackedDocumentFilter represents a filter for FindTrackedDocuments.
type TrackedDocumentFilter struct {
	ExternalID *string         `json:"externalId"`
	Type       *DocumentType   `json:"type"`
	Status     *DocumentStatus `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// TrackedDocumentUpdate represents fields that can be updated on a tracked
// document. Nil fields are left unchanged.
type TrackedDocumentUpdate struct {
	Title         *string         `json:"title"`
	Type          *DocumentType   `json:"type"`
	ExternalURL   *string         `json:"externalUrl"`
	RegistryID    *string         `json:"registryId"`
	ContentHash   *string         `json:"contentHash"`
	VersionLabel  *string         `json:"versionLabel"`
	PublishedAt   *time.Time      `json:"publishedAt"`
	LastCheckedAt *time.Time      `json:"lastCheckedAt"`
	Status        *DocumentStatus `json:"status"`
	ErrorMessage  *string         `json:"errorMessage"`
}
