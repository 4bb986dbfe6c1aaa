package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docwatch"
)

// Ensure LoggingRegistryService implements docwatch.RegistryService.
var _ docwatch.RegistryService = (*LoggingRegistryService)(nil)

// LoggingRegistryService wraps a RegistryService with upsert logging.
type LoggingRegistryService struct {
	next   docwatch.RegistryService
	logger *slog.Logger
}

// NewLoggingRegistryService creates a new LoggingRegistryService.
func NewLoggingRegistryService(next docwatch.RegistryService, logger *slog.Logger) *LoggingRegistryService {
	return &LoggingRegistryService{next: next, logger: logger}
}

// CreateEntry delegates to the wrapped service and logs the new entry ID.
func (s *LoggingRegistryService) CreateEntry(ctx context.Context, entry *docwatch.RegistryEntry) error {
	begin := time.Now()
	err := s.next.CreateEntry(ctx, entry)
	s.logger.Info("registry create",
		"id", entry.ID,
		"title", entry.Title,
		"type", string(entry.Type),
		"duration", time.Since(begin),
		"err", err,
	)
	return err
}

// UpdateEntry delegates to the wrapped service and logs the update.
func (s *LoggingRegistryService) UpdateEntry(ctx context.Context, id string, upd docwatch.RegistryEntryUpdate) (*docwatch.RegistryEntry, error) {
	begin := time.Now()
	entry, err := s.next.UpdateEntry(ctx, id, upd)
	s.logger.Info("registry update",
		"id", id,
		"duration", time.Since(begin),
		"err", err,
	)
	return entry, err
}

// FindEntryByID delegates to the wrapped service.
func (s *LoggingRegistryService) FindEntryByID(ctx context.Context, id string) (*docwatch.RegistryEntry, error) {
	return s.next.FindEntryByID(ctx, id)
}
