// Package storagetest opens throwaway in-memory databases for tests.
package storagetest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"crowdfund/internal/storage"
)

// New returns a migrated, private in-memory SQLite database that is closed
// when the test ends.
func New(t testing.TB) *storage.DB {
	t.Helper()

	db, err := storage.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	t.Cleanup(func() { _ = db.Close() })
	return db
}
