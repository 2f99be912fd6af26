package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHorizon is returned when a savings plan would span less than one planning period,
	// or when there are no obligations to plan toward.
	ErrInvalidHorizon = errors.New("invalid planning horizon")

	// ErrDivisionByZero is returned when a calculation denominator (remaining months, total income) is zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrInvalidInput is wrapped by every ValidationError
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError identifies the input field that was rejected before any calculation ran
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError builds a ValidationError with a formatted reason
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
