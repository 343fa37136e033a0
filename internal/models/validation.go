package models

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/yukikurage/task-tracker/internal/errors"
)

const maxEmailLength = 254

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Registration only fails for malformed tag names.
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("taskemail", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return v
}

// IsValidEmail reports whether email is an acceptable user address
func IsValidEmail(email string) bool {
	if email == "" || len(email) > maxEmailLength {
		return false
	}
	if strings.Contains(email, "..") {
		return false
	}
	return emailPattern.MatchString(email)
}

// rule is a single validator tag applied to a single value.
type rule struct {
	field   string
	value   interface{}
	tag     string
	code    string
	message string
}

// check applies rules in order and stops at the first one that fails.
func check(rules ...rule) error {
	for _, r := range rules {
		if err := validate.Var(r.value, r.tag); err != nil {
			return apperrors.NewValidationError(r.code, r.field, r.message)
		}
	}
	return nil
}

func notBlank(field, value string) rule {
	return rule{
		field:   field,
		value:   value,
		tag:     "notblank",
		code:    apperrors.ErrCodeMissingField,
		message: field + " cannot be blank",
	}
}
