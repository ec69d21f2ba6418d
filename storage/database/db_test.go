package database_test

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/storage/database"
	"github.com/sveduch/sveduch/storage/database/sqlite"
	"github.com/sveduch/sveduch/tests"
)

func TestOpenPath(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{name: "directory", path: dir},
		{name: "missing parent", path: filepath.Join(dir, "nope", "sveduch.db")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := database.OpenPath(tt.path)
			assert.True(t, core.IsStorageIO(err), "got %v", err)
		})
	}
}

func TestMigrateTwice(t *testing.T) {
	db := testutil.PrepareDB(t)
	assert.NoError(t, database.Migrate(db))
}

func TestBackupRestore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sveduch.db")

	db, err := database.OpenPath(dbPath)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	forms := sqliterepos.NewFormRepository(db)
	testutil.CreateForm(t, forms, "5А")

	backupDir := filepath.Join(dir, "backups")
	require.NoError(t, os.Mkdir(backupDir, 0o755))
	backupPath, err := database.Backup(dbPath, backupDir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(backupPath), "sveduch-"))

	// changes after the backup are lost on restore
	testutil.CreateForm(t, forms, "6А")

	res, err := database.Restore(db, dbPath, backupPath)
	require.NoError(t, err)
	assert.True(t, res.RestartRequired)
	assert.Error(t, db.PingContext(ctx), "the old connection must be closed")

	reopened, err := database.OpenPath(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	got, err := sqliterepos.NewFormRepository(reopened).QueryForms(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "5А", got[0].Number)
}

func TestRestoreRejectsNonDatabase(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "notes.txt")
	require.NoError(t, ioutil.WriteFile(bogus, []byte("not a database at all"), 0o644))

	tests := []struct {
		name string
		src  string
	}{
		{name: "not sqlite", src: bogus},
		{name: "missing", src: filepath.Join(dir, "missing.db")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := database.Restore(nil, filepath.Join(dir, "sveduch.db"), tt.src)
			assert.True(t, core.IsStorageIO(err), "got %v", err)
			assert.False(t, res.RestartRequired)
		})
	}
}

func TestBackupName(t *testing.T) {
	at := time.Date(2024, time.September, 1, 8, 30, 0, 0, time.UTC)
	name := database.BackupName(at)
	assert.True(t, strings.HasPrefix(name, "sveduch-20240901-083000-"), name)
	assert.True(t, strings.HasSuffix(name, ".db"), name)
	assert.NotEqual(t, name, database.BackupName(at))
}
