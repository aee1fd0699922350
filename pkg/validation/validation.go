// Package validation checks decoded request bodies against struct tags and
// reports the first failure as a domain validation error.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "linkboard/pkg/domain-errors"
	s "linkboard/pkg/string"
)

// MaxBodySize caps JSON request bodies (16 KB). Auth payloads are tiny.
const MaxBodySize = 16 * 1024

// Field length limits shared by request models.
const (
	MaxEmailLength    = 255
	MaxPasswordLength = 128 // bcrypt ignores input past 72 bytes; longer values are rejected outright
	TOTPCodeLength    = 6
)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("otp", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		if len(code) != TOTPCodeLength {
			return false
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})
	return v
}

// Validate validates a struct using the default validator and returns a domain error.
func Validate(req any) error {
	if err := defaultValidator.Struct(req); err != nil {
		return dErrors.New(dErrors.CodeValidation, ErrorMessage(err))
	}
	return nil
}

// ErrorMessage converts a validator error into a human-readable message.
func ErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "invalid request body"
	}

	fe := validationErrs[0]
	fieldName := fe.Field()
	if fieldName == "" {
		fieldName = fe.StructField()
	}
	field := s.ToSnakeCase(fieldName)

	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "otp":
		return fmt.Sprintf("%s must be a %d-digit code", field, TOTPCodeLength)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
