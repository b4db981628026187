package storage

import (
	"database/sql"
	"errors"

	"modernc.org/sqlite"
)

// Callers can tell a missing row from a storage fault: every lookup and
// row-count-checked write maps to ErrNotFound, uniqueness violations map
// to ErrDuplicate, and anything else is a wrapped driver error.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// IsNotFound reports whether err is the not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate reports whether err is a uniqueness violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// mapRowErr folds sql.ErrNoRows into the not-found sentinel.
func mapRowErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// isConstraintViolation detects sqlite constraint failures
// (SQLITE_CONSTRAINT primary result code 19, including the UNIQUE and
// CHECK extended codes).
func isConstraintViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == 19
	}
	return false
}
