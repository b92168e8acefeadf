package tariff

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingField matches any *MissingFieldError.
	ErrMissingField = errors.New("tariff: missing field")
	// ErrInvalidValue matches any *InvalidValueError.
	ErrInvalidValue = errors.New("tariff: invalid declared value")
)

const (
	missingFieldMessage = "Please fill in all fields"
	invalidValueMessage = "Please enter a valid product value"
)

// MissingFieldError reports request fields that were empty on submission.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("tariff: missing required fields: %s", strings.Join(e.Fields, ", "))
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// InvalidValueError reports a declared value that is not a finite number
// greater than zero.
type InvalidValueError struct {
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("tariff: declared value %q must be a number greater than zero", e.Value)
}

func (e *InvalidValueError) Is(target error) bool { return target == ErrInvalidValue }

// UserMessage returns the inline message shown next to the calculator form.
// ok is false for errors that are not validation failures.
func UserMessage(err error) (msg string, ok bool) {
	switch {
	case errors.Is(err, ErrMissingField):
		return missingFieldMessage, true
	case errors.Is(err, ErrInvalidValue):
		return invalidValueMessage, true
	default:
		return "", false
	}
}
