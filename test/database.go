package test

import (
	"path/filepath"
	"testing"

	"github.com/mirrorbank/backend/internal/models"
	"github.com/stretchr/testify/require"
)

// DBPath returns the path of a database file in a temporary directory of the test.
func DBPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "mirrorbank.db")
}

// Connect connects models.DB to a new database for the test and closes it
// when the test ends.
func Connect(t *testing.T) {
	require.Nil(t, models.Connect(DBPath(t)), "Database connection failed")

	db := models.DB
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
}
