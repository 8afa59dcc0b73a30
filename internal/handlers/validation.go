package handlers

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const maxStringLength = 255

// maxID is the largest value an INTEGER id column holds.
const maxID = math.MaxInt32

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// validate collects errors and returns a *ValidationError if any exist.
func validate(checks ...func() string) error {
	var errs []string
	for _, check := range checks {
		if msg := check(); msg != "" {
			errs = append(errs, msg)
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func checkMaxLength(field string, value *string, max int) string {
	if value != nil && len(*value) > max {
		return fmt.Sprintf("%s exceeds maximum length of %d", field, max)
	}
	return ""
}

// checkInterestIDs rejects a missing array and ids outside 1..maxID.
func checkInterestIDs(ids []int64) func() string {
	return func() string {
		if ids == nil {
			return "interestIds must be an array"
		}
		for i, id := range ids {
			if msg := idRangeError(fmt.Sprintf("interestIds[%d]", i), id); msg != "" {
				return msg
			}
		}
		return ""
	}
}

func checkPositiveID(field string, id int64) func() string {
	return func() string {
		return idRangeError(field, id)
	}
}

func idRangeError(field string, id int64) string {
	switch {
	case id <= 0:
		return fmt.Sprintf("%s must be a positive integer", field)
	case id > maxID:
		return fmt.Sprintf("%s must be at most %d", field, maxID)
	}
	return ""
}

var (
	structValidator *validator.Validate
	validatorOnce   sync.Once
)

// getValidator returns the shared validator, reporting fields by their JSON names.
func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
		structValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return structValidator
}

// validateStruct runs the `validate` tags of s and converts failures into a *ValidationError.
func validateStruct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, translateFieldError(fe))
	}
	return &ValidationError{Errors: msgs}
}

func translateFieldError(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s exceeds maximum length of %s", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		if fe.Param() == "0" {
			return fmt.Sprintf("%s must not be negative", field)
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		if fe.Param() == "0" {
			return fmt.Sprintf("%s must be a positive integer", field)
		}
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
