// Package database opens the SQLite store, migrates it, and takes or restores
// file-level backups.
package database

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"
	_ "modernc.org/sqlite"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/storage/database/migrations"
)

const (
	driverName   = "sqlite"
	gooseDialect = "sqlite3"
	backupExt    = ".db"
)

// sqliteHeader starts every SQLite database file.
var sqliteHeader = []byte("SQLite format 3\x00")

// RestoreResult tells the caller what it must do after a restore.
type RestoreResult struct {
	Path            string
	RestartRequired bool
}

func dsn(path string) string {
	q := make(url.Values)
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	return path + "?" + q.Encode()
}

// Open connects to the store at conf.DBPath. The pool is limited to a single
// connection: the store is owned by one local process.
func Open(conf *core.Config) (*sqlx.DB, error) {
	return OpenPath(conf.DBPath)
}

func OpenPath(path string) (*sqlx.DB, error) {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return nil, core.NewStorageIOError(path, errors.New("is a directory"))
	} else if err != nil && !os.IsNotExist(err) {
		return nil, core.NewStorageIOError(path, err)
	}

	db, err := sqlx.Open(driverName, dsn(path))
	if err != nil {
		return nil, core.NewStorageIOError(path, errors.Wrap(err, "opening database"))
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, core.NewStorageIOError(path, errors.Wrap(err, "pinging database"))
	}
	return db, nil
}

// Migrate applies every pending migration.
func Migrate(db *sqlx.DB) error {
	if err := goose.SetDialect(gooseDialect); err != nil {
		return errors.Wrap(err, "setting migration dialect")
	}
	if err := goose.Up(db.DB, migrations.FS, migrations.Dir); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

// Backup copies the store file at dbPath. dest is either the target file or
// an existing directory, in which case a timestamped name is generated.
// The copy is taken while the connection stays open: every write auto-commits.
func Backup(dbPath, dest string) (string, error) {
	if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
		dest = filepath.Join(dest, BackupName(time.Now()))
	} else if strings.HasSuffix(dest, string(os.PathSeparator)) {
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return "", core.NewStorageIOError(dest, err)
		}
		dest = filepath.Join(dest, BackupName(time.Now()))
	}
	if err := copyFile(dbPath, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// BackupName is "sveduch-<yyyymmdd-hhmmss>-<short id>.db".
func BackupName(at time.Time) string {
	id := strings.SplitN(uuid.New().String(), "-", 2)[0]
	return "sveduch-" + at.Format("20060102-150405") + "-" + id + backupExt
}

// Restore replaces the store file at dbPath with src. The live connection is
// closed first and is not reopened: the process must restart.
func Restore(db io.Closer, dbPath, src string) (RestoreResult, error) {
	if err := checkSQLiteFile(src); err != nil {
		return RestoreResult{}, err
	}
	if db != nil {
		if err := db.Close(); err != nil {
			return RestoreResult{}, core.NewStorageIOError(dbPath, errors.Wrap(err, "closing database"))
		}
	}

	tmp := dbPath + ".restore"
	if err := copyFile(src, tmp); err != nil {
		return RestoreResult{}, err
	}
	if err := os.Rename(tmp, dbPath); err != nil {
		_ = os.Remove(tmp)
		return RestoreResult{}, core.NewStorageIOError(dbPath, err)
	}
	for _, suffix := range []string{"-wal", "-shm", "-journal"} {
		_ = os.Remove(dbPath + suffix)
	}
	return RestoreResult{Path: dbPath, RestartRequired: true}, nil
}

func checkSQLiteFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return core.NewStorageIOError(path, err)
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, len(sqliteHeader))
	if _, err := io.ReadFull(f, head); err != nil || !bytes.Equal(head, sqliteHeader) {
		return core.NewStorageIOError(path, errors.New("not a database backup"))
	}
	return nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return core.NewStorageIOError(src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return core.NewStorageIOError(dst, err)
	}
	defer func() {
		if cErr := out.Close(); cErr != nil && err == nil {
			err = core.NewStorageIOError(dst, cErr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return core.NewStorageIOError(dst, errors.Wrap(err, "copying"))
	}
	if err := out.Sync(); err != nil {
		return core.NewStorageIOError(dst, err)
	}
	return nil
}
