package repositories

import (
	"errors"
	"strings"

	sqlite3 "modernc.org/sqlite"
)

// SQLite extended result codes for constraint violations.
const (
	sqliteConstraintUnique     = 2067
	sqliteConstraintPrimaryKey = 1555
)

// isUniqueViolation reports whether err is a SQLite unique-constraint
// failure. The unique indexes in the schema are the authoritative dedup
// enforcement; services translate this into apperrors.ErrAlreadyExists.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var se *sqlite3.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqliteConstraintUnique || code == sqliteConstraintPrimaryKey
	}
	// Wrapped driver errors that lost their type still carry the message.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
