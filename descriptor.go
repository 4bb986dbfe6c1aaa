package docwatch

import (
	"net/url"
	"time"
)

// DocumentType classifies a document listed on the source site.
type DocumentType string

// Known document types. Listings that cannot be classified fall back to
// TypeOther rather than being dropped.
const (
	TypeStatute DocumentType = "statute"
	TypeRules   DocumentType = "rules"
	TypeForm    DocumentType = "form"
	TypeOther   DocumentType = "other"
)

// DocumentStatus represents the lifecycle state of a tracked document.
type DocumentStatus string

// Tracked document statuses. Documents are never deleted by the watcher;
// archival is a manual operator action.
const (
	StatusActive   DocumentStatus = "active"
	StatusArchived DocumentStatus = "archived"
	StatusError    DocumentStatus = "error"
)

// DocumentDescriptor is one candidate document extracted from a listing page.
// Descriptors are ephemeral: the parser produces them, the reconciler consumes
// them, and nothing persists them directly.
//
// ExternalID is derived deterministically from the normalized document URL,
// so repeated fetches of the same logical document yield the same ID.
type DocumentDescriptor struct {
	ExternalID   string       `json:"externalId"`
	Title        string       `json:"title"`
	Type         DocumentType `json:"type"`
	ExternalURL  string       `json:"externalUrl"`
	VersionLabel string       `json:"versionLabel,omitempty"`
	PublishedAt  *time.Time   `json:"publishedAt,omitempty"`
}

// Validate returns an error if the descriptor contains invalid fields.
func (d *DocumentDescriptor) Validate() error {
	if d.ExternalID == "" {
		return Errorf(EINVALID, "descriptor external ID required")
	}
	if d.ExternalURL == "" {
		return Errorf(EINVALID, "descriptor external URL required")
	}
	u, err := url.Parse(d.ExternalURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return Errorf(EINVALID, "descriptor external URL must be absolute: %q", d.ExternalURL)
	}
	return nil
}
