package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/fwojciec/docwatch/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory database for testing.
func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("opens an in-memory database", func(t *testing.T) {
		t.Parallel()
		db := sqlite.NewDB(":memory:")
		require.NoError(t, db.Open())
		assert.NoError(t, db.Close())
	})

	t.Run("creates the file and persists across reopen", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "docwatch.db")

		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		require.NoError(t, db.Close())

		reopened := sqlite.NewDB(path)
		require.NoError(t, reopened.Open())
		assert.NoError(t, reopened.Close())
	})

	t.Run("close without open is a no-op", func(t *testing.T) {
		t.Parallel()
		db := sqlite.NewDB(":memory:")
		assert.NoError(t, db.Close())
	})
}
