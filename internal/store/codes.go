package store

import (
	"strings"

	"github.com/google/uuid"
)

// Entity code prefixes.
const (
	itemCodePrefix   = "ITM"
	reportCodePrefix = "RPT"
	claimCodePrefix  = "CLM"
)

// newCode generates a human-readable entity code like "CLM-4F2A9C01".
func newCode(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return prefix + "-" + suffix
}

// isUniqueViolation reports whether err is a SQLite unique constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
