package database

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound means the target student row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict means a duplicate-key collision the upsert rule did not absorb.
	ErrConflict = errors.New("duplicate key conflict")
)

// isDuplicateKey detects a Postgres unique violation (SQLSTATE 23505).
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "23505")
}
