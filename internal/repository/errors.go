package repository

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	apperrors "github.com/yukikurage/task-tracker/internal/errors"
)

// writeError classifies a failed write on table. Constraint failures become
// *errors.ConstraintError; anything else is wrapped with action.
func writeError(table, action string, err error) error {
	if kind, ok := constraintKind(err); ok {
		return apperrors.NewConstraintError(kind, table, err)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// constraintKind recognizes the errors gorm translates for every dialect and
// falls back to the raw SQLite result codes.
func constraintKind(err error) (apperrors.ConstraintKind, bool) {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.ConstraintUnique, true
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.ConstraintForeignKey, true
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return apperrors.ConstraintCheck, true
	}

	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code != sqlite3.ErrConstraint {
		return "", false
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return apperrors.ConstraintUnique, true
	case sqlite3.ErrConstraintForeignKey:
		return apperrors.ConstraintForeignKey, true
	case sqlite3.ErrConstraintNotNull:
		return apperrors.ConstraintNotNull, true
	default:
		return apperrors.ConstraintCheck, true
	}
}
