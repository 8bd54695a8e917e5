package sqldb

import (
	"errors"

	"github.com/uptrace/bun/driver/pgdriver"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/portfolio/backend/internal/core/domain"
)

// constraintViolation reports integrity-constraint failures of either
// driver (SQLSTATE class 23 on PostgreSQL, SQLITE_CONSTRAINT on SQLite)
// together with the text naming the constraint: the constraint name on
// PostgreSQL, the error message on SQLite.
func constraintViolation(err error) (string, bool) {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('n'), pgErr.IntegrityViolation()
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Error(), liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return "", false
}

// translate maps constraint violations to *domain.ConstraintError and
// leaves other errors unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if name, ok := constraintViolation(err); ok {
		return &domain.ConstraintError{Field: domain.ConstraintField(name), Err: err}
	}
	return err
}
