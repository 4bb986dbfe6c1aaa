package docwatch

import (
	"context"
	"time"
)

// RegistryEntry is a record in the internal document registry, the store that
// downstream consumers read from. Registry IDs are opaque and distinct from
// the external IDs used to track source documents.
type RegistryEntry struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Type         DocumentType `json:"type"`
	SourceURL    string       `json:"sourceUrl"`
	VersionLabel string       `json:"versionLabel,omitempty"`
	PublishedAt  *time.Time   `json:"publishedAt,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *RegistryEntry) Validate() error {
	if e.Title == "" {
		return Errorf(EINVALID, "registry entry title required")
	}
	if e.SourceURL == "" {
		return Errorf(EINVALID, "registry entry source URL required")
	}
	return nil
}

// RegistryEntryUpdate represents fields that can be updated on a registry
// entry. Nil fields are left unchanged.
type RegistryEntryUpdate struct {
	Title        *string       `json:"title"`
	Type         *DocumentType `json:"type"`
	SourceURL    *string       `json:"sourceUrl"`
	VersionLabel *string       `json:"versionLabel"`
	PublishedAt  *time.Time    `json:"publishedAt"`
}

// RegistryService represents the document registry the watcher upserts into.
type RegistryService interface {
	// CreateEntry creates a new registry entry and assigns its ID.
	CreateEntry(ctx context.Context, entry *RegistryEntry) error

	// UpdateEntry updates an existing registry entry.
	// Returns ENOTFOUND if the entry does not exist.
	UpdateEntry(ctx context.Context, id string, upd RegistryEntryUpdate) (*RegistryEntry, error)

	// FindEntryByID retrieves a registry entry by ID.
	// Returns ENOTFOUND if the entry does not exist.
	FindEntryByID(ctx context.Context, id string) (*RegistryEntry, error)
}
