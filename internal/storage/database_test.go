package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdfund/internal/models"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := Open("sqlite", "file::memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate())

	for _, m := range []interface{}{&models.User{}, &models.Token{}, &models.Fundraiser{}, &models.Pledge{}} {
		assert.True(t, db.Migrator().HasTable(m), "%T table", m)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "x")
	assert.ErrorContains(t, err, "unsupported driver")
}
