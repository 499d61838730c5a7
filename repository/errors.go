package repository

import (
	"errors"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
)

var (
	// ErrConflict is returned when a unique key already exists.
	ErrConflict = errors.New("already exists")
	// ErrNotFound is returned by mutations addressing a missing row.
	ErrNotFound = errors.New("not found")
)

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
