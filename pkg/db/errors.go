package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
)

// IsUniqueViolation reports whether err is a unique constraint failure. When
// constraintName is set it must match the reported constraint. SQLite only
// reports message text, so that is matched as a fallback.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if pg, ok := pkgerrors.PostgresDetail(err); ok {
		return pg.Code == pkgerrors.PGUniqueViolation && (constraintName == "" || pg.Constraint == constraintName)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return constraintName == "" || strings.Contains(err.Error(), constraintName)
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return constraintName == "" || strings.Contains(msg, constraintName)
}

// IsNotFound reports whether err is gorm's missing-row sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
