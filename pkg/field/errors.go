package field

import (
	"errors"
	"fmt"
)

// ErrInvalidFieldSpec is matched by every malformed declaration error.
var ErrInvalidFieldSpec = errors.New("invalid field spec")

// InvalidSpecError describes why a declaration could not be resolved.
type InvalidSpecError struct {
	Field  string
	Reason string
	Err    error
}

func (e *InvalidSpecError) Error() string {
	msg := fmt.Sprintf("%s: field %q: %s", ErrInvalidFieldSpec, e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidSpecError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidFieldSpec) hold.
func (e *InvalidSpecError) Is(target error) bool {
	return target == ErrInvalidFieldSpec
}

func invalid(name, reason string, err error) error {
	return &InvalidSpecError{Field: name, Reason: reason, Err: err}
}
