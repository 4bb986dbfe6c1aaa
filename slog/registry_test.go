package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/docwatch"
	"github.com/fwojciec/docwatch/mock"
	docslog "github.com/fwojciec/docwatch/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRegistryService_CreateEntry(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.RegistryService{
		CreateEntryFn: func(ctx context.Context, entry *docwatch.RegistryEntry) error {
			entry.ID = "entry-1"
			return nil
		},
	}

	s := docslog.NewLoggingRegistryService(inner, logger)
	entry := &docwatch.RegistryEntry{Title: "Stadgar", Type: docwatch.TypeStatute}
	require.NoError(t, s.CreateEntry(context.Background(), entry))

	output := buf.String()
	assert.Contains(t, output, "registry create")
	assert.Contains(t, output, "id=entry-1")
	assert.Contains(t, output, "title=Stadgar")
	assert.Contains(t, output, "duration=")
}

func TestLoggingRegistryService_UpdateEntry(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.RegistryService{
		UpdateEntryFn: func(ctx context.Context, id string, upd docwatch.RegistryEntryUpdate) (*docwatch.RegistryEntry, error) {
			return &docwatch.RegistryEntry{ID: id}, nil
		},
	}

	s := docslog.NewLoggingRegistryService(inner, logger)
	_, err := s.UpdateEntry(context.Background(), "entry-1", docwatch.RegistryEntryUpdate{})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "registry update")
	assert.Contains(t, buf.String(), "id=entry-1")
}

func TestLoggingRegistryService_FindEntryByID(t *testing.T) {
	t.Parallel()

	inner := &mock.RegistryService{
		FindEntryByIDFn: func(ctx context.Context, id string) (*docwatch.RegistryEntry, error) {
			return &docwatch.RegistryEntry{ID: id, Title: "Stadgar"}, nil
		},
	}

	s := docslog.NewLoggingRegistryService(inner, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	entry, err := s.FindEntryByID(context.Background(), "entry-1")
	require.NoError(t, err)
	assert.Equal(t, "Stadgar", entry.Title)
}
