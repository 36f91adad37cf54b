package httpapi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newRequestValidator reports violations under the JSON field names the
// client actually sent.
func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

func fieldViolationsFromError(err error) []fieldViolation {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []fieldViolation{{
			Field:   "body",
			Message: "request body is invalid",
			Code:    "invalid",
		}}
	}

	out := make([]fieldViolation, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		out = append(out, fieldViolation{
			Field:   fieldErr.Field(),
			Message: violationMessage(fieldErr),
			Code:    fieldErr.Tag(),
		})
	}

	return out
}

func violationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldErr.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fieldErr.Field(), fieldErr.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fieldErr.Field(), fieldErr.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fieldErr.Field(), fieldErr.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fieldErr.Field(), fieldErr.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fieldErr.Field())
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", fieldErr.Field())
	default:
		return fmt.Sprintf("%s is invalid", fieldErr.Field())
	}
}
