package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/courseenroll/backend/libs/apperrors"
	"github.com/go-playground/validator/v10"
)

// newValidator creates a validator reporting JSON field names
func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return validate
}

// validateStruct validates a request and converts the first failure into a validation error
func validateStruct(validate *validator.Validate, req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return apperrors.Wrap(apperrors.KindValidation, "invalid request", err)
	}

	return apperrors.Validation(describeFieldError(validationErrors[0]))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must not be empty", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
