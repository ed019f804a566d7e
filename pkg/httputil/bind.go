package httputil

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/clinichq/clinic-api/pkg/errors"
)

// BindError converts a gin binding failure into a field-keyed validation
// error. Validator tags are mapped to short human explanations; anything
// else becomes a generic validation error.
func BindError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.NewValidation("invalid request body")
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields[snakeCase(fieldErr.Field())] = tagMessage(fieldErr)
	}
	return errors.NewValidationFields(fields)
}

func tagMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fieldErr.Param()
	case "max":
		return "must be at most " + fieldErr.Param()
	case "gte":
		return "must be at least " + fieldErr.Param()
	case "lte":
		return "must be at most " + fieldErr.Param()
	case "gt":
		return "must be greater than " + fieldErr.Param()
	case "oneof":
		return "must be one of: " + fieldErr.Param()
	case "datetime":
		return "must match format " + fieldErr.Param()
	default:
		return "invalid value"
	}
}

func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
