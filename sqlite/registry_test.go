package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/docwatch"
	"github.com/fwojciec/docwatch/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry() *docwatch.RegistryEntry {
	return &docwatch.RegistryEntry{
		Title:     "Stadgar",
		Type:      docwatch.TypeStatute,
		SourceURL: "https://example.com/files/stadgar.pdf",
	}
}

func TestRegistryService_CreateEntry(t *testing.T) {
	t.Parallel()

	t.Run("assigns an ID and timestamps", func(t *testing.T) {
		t.Parallel()
		db := setupTestDB(t)
		s := sqlite.NewRegistryService(db)
		ctx := context.Background()

		entry := testEntry()
		require.NoError(t, s.CreateEntry(ctx, entry))
		assert.NotEmpty(t, entry.ID)
		assert.False(t, entry.CreatedAt.IsZero())

		got, err := s.FindEntryByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "Stadgar", got.Title)
		assert.Equal(t, docwatch.TypeStatute, got.Type)
	})

	t.Run("defaults a missing type to other", func(t *testing.T) {
		t.Parallel()
		db := setupTestDB(t)
		s := sqlite.NewRegistryService(db)

		entry := testEntry()
		entry.Type = ""
		require.NoError(t, s.CreateEntry(context.Background(), entry))
		assert.Equal(t, docwatch.TypeOther, entry.Type)
	})

	t.Run("rejects an entry without a title", func(t *testing.T) {
		t.Parallel()
		db := setupTestDB(t)
		s := sqlite.NewRegistryService(db)

		entry := testEntry()
		entry.Title = ""
		err := s.CreateEntry(context.Background(), entry)
		assert.Equal(t, docwatch.EINVALID, docwatch.ErrorCode(err))
	})
}

func TestRegistryService_FindEntryByID(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	s := sqlite.NewRegistryService(db)

	_, err := s.FindEntryByID(context.Background(), "missing")
	assert.Equal(t, docwatch.ENOTFOUND, docwatch.ErrorCode(err))
}

func TestRegistryService_UpdateEntry(t *testing.T) {
	t.Parallel()

	t.Run("applies partial updates and bumps UpdatedAt", func(t *testing.T) {
		t.Parallel()
		db := setupTestDB(t)
		s := sqlite.NewRegistryService(db)
		ctx := context.Background()

		entry := testEntry()
		require.NoError(t, s.CreateEntry(ctx, entry))

		title := "Stadgar (reviderade)"
		version := "2"
		published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		got, err := s.UpdateEntry(ctx, entry.ID, docwatch.RegistryEntryUpdate{
			Title:        &title,
			VersionLabel: &version,
			PublishedAt:  &published,
		})
		require.NoError(t, err)
		assert.Equal(t, title, got.Title)
		assert.Equal(t, "2", got.VersionLabel)
		require.NotNil(t, got.PublishedAt)
		assert.Equal(t, published, *got.PublishedAt)
		assert.Equal(t, entry.SourceURL, got.SourceURL)

		persisted, err := s.FindEntryByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, title, persisted.Title)
	})

	t.Run("returns ENOTFOUND for a missing entry", func(t *testing.T) {
		t.Parallel()
		db := setupTestDB(t)
		s := sqlite.NewRegistryService(db)

		title := "whatever"
		_, err := s.UpdateEntry(context.Background(), "missing", docwatch.RegistryEntryUpdate{Title: &title})
		assert.Equal(t, docwatch.ENOTFOUND, docwatch.ErrorCode(err))
	})
}
