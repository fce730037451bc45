package db_test

import (
	"path/filepath"
	"testing"

	"github.com/HKK13/hello-bott/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_Idempotent(t *testing.T) {
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, db.Migrate(database))
	require.NoError(t, db.Migrate(database))

	for _, table := range []string{"users", "workdays", "workday_intervals"} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestOpenDB_FileBackedReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bot.db")

	first, err := db.OpenDB(path)
	require.NoError(t, err)
	_, err = first.Exec(`INSERT INTO workdays (id, owner, begin_at, created_at, updated_at)
		VALUES ('w1', 'U1', '2026-01-01T09:00:00Z', '2026-01-01T09:00:00Z', '2026-01-01T09:00:00Z')`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := db.OpenDB(path)
	require.NoError(t, err)
	defer second.Close()

	var owner string
	require.NoError(t, second.QueryRow(`SELECT owner FROM workdays WHERE id = 'w1'`).Scan(&owner))
	assert.Equal(t, "U1", owner)
}

func TestOpenDB_ForeignKeysEnforced(t *testing.T) {
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`INSERT INTO workday_intervals (workday_id, seq, begin_at) VALUES ('missing', 0, '2026-01-01T09:00:00Z')`)
	assert.Error(t, err, "interval without a parent workday should be rejected")
}
