// Package validator adapts go-playground/validator to echo.Validator.
package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"signup/internal/errors"
)

// CustomValidator validates bound request structs by their `validate` tags.
type CustomValidator struct {
	validate *validator.Validate
}

// New returns a validator that reports fields by their JSON names.
func New() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return &CustomValidator{validate: v}
}

// Validate implements echo.Validator.
func (cv *CustomValidator) Validate(i any) error {
	return errors.WithStack(cv.validate.Struct(i))
}

// FieldErrors lists the JSON paths of the fields that failed validation, or
// nil when err is not a validation error.
func FieldErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "registerRequest.phones[0].number"; drop the struct name.
		_, path, found := strings.Cut(fe.Namespace(), ".")
		if !found {
			path = fe.Field()
		}
		fields = append(fields, path+":"+fe.Tag())
	}

	return fields
}
