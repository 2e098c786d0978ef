package binding

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

var (
	// ErrCast is matched by every CastError.
	ErrCast = errors.New("cast failed")
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrUnset is returned by Get for fields that were not resolved.
	ErrUnset = errors.New("field not set")
	// ErrTypeMismatch is returned by Get when the stored value has another type.
	ErrTypeMismatch = errors.New("field type mismatch")
)

// CastError reports a raw value that could not be converted to its field type.
// Its message never contains Value; the cause, which may quote it, is only
// reachable through Unwrap.
type CastError struct {
	Field string
	Value string
	Type  string
	Err   error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("%s: environment variable %q cannot be cast to %s: %s", ErrCast, e.Field, e.Type, e.Reason())
}

// Reason classifies the cause without repeating the raw value.
func (e *CastError) Reason() string {
	var numErr *strconv.NumError
	switch {
	case errors.As(e.Err, &numErr):
		return numErr.Err.Error()
	case errors.Is(e.Err, errInvalidBool):
		return "not a boolean literal"
	default:
		return "value rejected by constructor"
	}
}

func (e *CastError) Unwrap() error { return e.Err }

func (e *CastError) Is(target error) bool { return target == ErrCast }

// MissingError reports one required field without a value.
type MissingError struct {
	Field string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("environment variable %q is not set and has no default", e.Field)
}

// ValidationError lists every required field that had no value.
type ValidationError struct {
	// Missing holds the field names in declaration order.
	Missing []string
	errs    error
}

func newValidationError(errs error) *ValidationError {
	ve := &ValidationError{errs: errs}
	for _, err := range multierr.Errors(errs) {
		var missing *MissingError
		if errors.As(err, &missing) {
			ve.Missing = append(ve.Missing, missing.Field)
		}
	}
	return ve
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: required environment variables not set: %s", ErrValidation, strings.Join(e.Missing, ", "))
}

// Unwrap exposes one *MissingError per missing field.
func (e *ValidationError) Unwrap() []error { return multierr.Errors(e.errs) }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
