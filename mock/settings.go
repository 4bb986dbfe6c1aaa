package mock

import (
	"context"
	"sync"

	"github.com/fwojciec/docwatch"
)

var _ docwatch.SettingsService = (*SettingsService)(nil)

// SettingsService is a mock implementation of docwatch.SettingsService.
type SettingsService struct {
	GetFn    func(ctx context.Context, key string) (string, error)
	SetFn    func(ctx context.Context, key, value string) error
	DeleteFn func(ctx context.Context, key string) error
}

func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	return s.GetFn(ctx, key)
}

func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	return s.SetFn(ctx, key, value)
}

func (s *SettingsService) Delete(ctx context.Context, key string) error {
	return s.DeleteFn(ctx, key)
}

var _ docwatch.SettingsService = (*MemorySettingsService)(nil)

// MemorySettingsService is an in-memory docwatch.SettingsService for tests
// that need real get/set semantics rather than scripted responses.
type MemorySettingsService struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemorySettingsService creates an empty MemorySettingsService.
func NewMemorySettingsService() *MemorySettingsService {
	return &MemorySettingsService{values: make(map[string]string)}
}

func (s *MemorySettingsService) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	if !ok {
		return "", docwatch.Errorf(docwatch.ENOTFOUND, "setting %q not found", key)
	}
	return value, nil
}

func (s *MemorySettingsService) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemorySettingsService) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
