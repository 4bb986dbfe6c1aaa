package mock

import (
	"context"

	"github.com/fwojciec/docwatch"
)

var _ docwatch.RegistryService = (*RegistryService)(nil)

// RegistryService is a mock implementation of docwatch.RegistryService.
type RegistryService struct {
	CreateEntryFn   func(ctx context.Context, entry *docwatch.RegistryEntry) error
	UpdateEntryFn   func(ctx context.Context, id string, upd docwatch.RegistryEntryUpdate) (*docwatch.RegistryEntry, error)
	FindEntryByIDFn func(ctx context.Context, id string) (*docwatch.RegistryEntry, error)
}

func (s *RegistryService) CreateEntry(ctx context.Context, entry *docwatch.RegistryEntry) error {
	return s.CreateEntryFn(ctx, entry)
}

func (s *RegistryService) UpdateEntry(ctx context.Context, id string, upd docwatch.RegistryEntryUpdate) (*docwatch.RegistryEntry, error) {
	return s.UpdateEntryFn(ctx, id, upd)
}

func (s *RegistryService) FindEntryByID(ctx context.Context, id string) (*docwatch.RegistryEntry, error) {
	return s.FindEntryByIDFn(ctx, id)
}
