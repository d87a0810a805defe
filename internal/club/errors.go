package club

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

var (
	ErrInvalidName         = errors.New("player name must not be empty")
	ErrDuplicateName       = errors.New("player name already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidParticipants = errors.New("invalid match participants")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrRestoreNotEmpty     = errors.New("restore requires an empty store")
	ErrInvalidSnapshot     = errors.New("invalid snapshot")
)

// storageErr marks a driver failure as ErrStorageUnavailable while keeping the cause.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	// libsql reports constraint failures as plain text
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
