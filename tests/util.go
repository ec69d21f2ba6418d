package testutil

import (
	"context"
	"io/ioutil"
	"log"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/core/form"
	"github.com/sveduch/sveduch/core/program"
	"github.com/sveduch/sveduch/core/pupil"
	"github.com/sveduch/sveduch/services/logger"
	"github.com/sveduch/sveduch/storage/database"
)

// PrepareDB opens a fresh, migrated store in a temporary directory.
// It is closed when the test ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.OpenPath(DBPath(t))
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

// DBPath is the store file PrepareDB opens for t.
func DBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "sveduch.db")
}

func NewConfig(dbPath string) *core.Config {
	return &core.Config{
		Env:       "TEST",
		AppName:   "SvedUch",
		TestMode:  true,
		DBPath:    dbPath,
		BackupDir: filepath.Join(filepath.Dir(dbPath), "backups"),
		PageSize:  50,
	}
}

// NewLogger returns a silent logger.
func NewLogger() core.Logger {
	return logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), NewConfig(""))
}

func CreateForm(t *testing.T, repo form.Repository, number string) form.Form {
	t.Helper()
	frm, err := repo.CreateForm(context.Background(), number)
	if err != nil {
		t.Fatalf("CreateForm() failed: %v", err)
	}
	return frm
}

func CreateProgram(t *testing.T, repo program.Repository, name, version string) program.Program {
	t.Helper()
	prog, err := repo.CreateProgram(context.Background(), program.Program{Name: name, Version: version})
	if err != nil {
		t.Fatalf("CreateProgram() failed: %v", err)
	}
	return prog
}

func CreatePupil(
	t *testing.T,
	repo pupil.Repository,
	formID int64,
	surname, name, patronymic string,
	programID ...int64,
) pupil.Pupil {
	t.Helper()
	rec := pupil.Record{FormID: formID, Surname: surname, Name: name, Patronymic: patronymic}
	if len(programID) > 0 {
		rec.ProgramID = null.Int64From(programID[0])
	}
	p, err := repo.CreatePupil(context.Background(), rec)
	if err != nil {
		t.Fatalf("CreatePupil() failed: %v", err)
	}
	return p
}
