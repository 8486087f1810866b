package common

import (
	"errors"
	"fmt"
	"strings"

	validator "github.com/go-playground/validator/v10"
)

// Validator is the shared request payload validator.
var Validator = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct checks the struct tags on a request payload and returns a
// flattened field->reason map suitable for the error details envelope.
func ValidateStruct(payload any) (map[string]string, error) {
	err := Validator.Struct(payload)
	if err == nil {
		return nil, nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil, err
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[strings.ToLower(fe.Field())] = fmt.Sprintf("failed %q validation", fe.Tag())
	}
	return details, err
}
