// Package sqliterepos implements the core repositories on top of SQLite via sqlx.
package sqliterepos

import (
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sveduch/sveduch/core"
)

type baseRepo struct {
	exec core.DBExecutor
}

func (repo baseRepo) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.exec
}

// isConstraintErr reports whether SQLite rejected a statement on a constraint
// (unique, foreign key, not null, check).
func isConstraintErr(err error) bool {
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}

// trapErr maps "no rows" to notFound, constraint failures to a
// *core.ConstraintViolation wrapping violation (if set), and wraps anything else with msg.
func trapErr(err error, msg string, notFound, violation error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows) && notFound != nil:
		return notFound
	case isConstraintErr(err):
		if violation != nil {
			return core.NewConstraintViolation(msg, errors.Wrap(violation, err.Error()))
		}
		return core.NewConstraintViolation(msg, err)
	}
	return errors.Wrap(err, msg)
}

// checkAffected returns notFound when res touched no row.
func checkAffected(res sql.Result, msg string, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, msg)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
