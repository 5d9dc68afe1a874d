package persistence

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateKey detects unique-constraint violations across dialects.
// Postgres reports "duplicate key value violates unique constraint",
// SQLite reports "UNIQUE constraint failed".
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint")
}
