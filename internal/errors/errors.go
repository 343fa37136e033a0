package errors

import (
	"errors"
	"fmt"
)

// Error codes
const (
	// Validation errors
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeMissingField  = "MISSING_FIELD"
	ErrCodeInvalidFormat = "INVALID_FORMAT"
	ErrCodeOutOfRange    = "OUT_OF_RANGE"
	ErrCodeInvalidDates  = "INVALID_DATES"

	// Store errors
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"
	ErrCodeMissingReference = "MISSING_REFERENCE"
	ErrCodeConstraintFailed = "CONSTRAINT_FAILED"
)

// ValidationError is returned when an entity field breaks one of its rules.
// Only the first broken rule is reported.
type ValidationError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(code, field, message string) *ValidationError {
	return &ValidationError{
		Code:    code,
		Field:   field,
		Message: message,
	}
}

// ConstraintKind names the store rule that rejected a write.
type ConstraintKind string

const (
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintCheck      ConstraintKind = "check"
	ConstraintNotNull    ConstraintKind = "not_null"
)

// ConstraintError is a write rejected by the store's own constraint engine.
type ConstraintError struct {
	Kind  ConstraintKind `json:"kind"`
	Table string         `json:"table"`
	Err   error          `json:"-"`
}

// Error implements the error interface
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s constraint violated on %s: %v", e.Kind, e.Table, e.Err)
}

// Unwrap returns the driver error
func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// Code maps the constraint kind onto an error code
func (e *ConstraintError) Code() string {
	switch e.Kind {
	case ConstraintUnique:
		return ErrCodeAlreadyExists
	case ConstraintForeignKey:
		return ErrCodeMissingReference
	default:
		return ErrCodeConstraintFailed
	}
}

// NewConstraintError creates a new ConstraintError
func NewConstraintError(kind ConstraintKind, table string, err error) *ConstraintError {
	return &ConstraintError{
		Kind:  kind,
		Table: table,
		Err:   err,
	}
}

// IsValidation reports whether err carries a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsConstraint reports whether err carries a ConstraintError
func IsConstraint(err error) bool {
	var c *ConstraintError
	return errors.As(err, &c)
}

// IsConstraintKind reports whether err carries a ConstraintError of the given kind
func IsConstraintKind(err error, kind ConstraintKind) bool {
	var c *ConstraintError
	if !errors.As(err, &c) {
		return false
	}
	return c.Kind == kind
}
