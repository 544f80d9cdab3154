package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/toolbox/errors"
)

var (
	validate *validator.Validate
	once     sync.Once

	alphaSpaces = regexp.MustCompile(`^[\pL\s]*$`)
)

// getValidator returns the shared go-playground instance with the toolbox
// tags registered.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Use json tag names for field names in error messages
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return toSnakeCase(fld.Name)
			}
			return name
		})

		_ = validate.RegisterValidation("alpha_spaces", func(fl validator.FieldLevel) bool {
			return alphaSpaces.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Engine exposes the shared go-playground validator, e.g. to register
// additional tags.
func Engine() *validator.Validate {
	return getValidator()
}

// Struct validates a struct using `validate:"..."` tags.
func Struct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Validation("validation failed").WithCause(err)
	}

	c := New()
	for _, e := range validationErrors {
		c.Add(e.Field(), formatValidationError(e))
	}
	return c.Err()
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	case "alpha_spaces":
		return "may only contain letters and spaces"
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a field name to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
