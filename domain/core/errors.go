package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Request validation errors
	ErrInvalidRequest      = errors.New("invalid analysis request")
	ErrUnknownField        = fmt.Errorf("%w: unknown field", ErrInvalidRequest)
	ErrTypeMismatch        = fmt.Errorf("%w: field type mismatch", ErrInvalidRequest)
	ErrUnsupportedOperator = fmt.Errorf("%w: unsupported filter operator", ErrInvalidRequest)
	ErrAmbiguousGroups     = fmt.Errorf("%w: group field has more than two levels", ErrInvalidRequest)

	// Numerical conditions
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrRankDeficient    = errors.New("rank-deficient linear system")

	// Dataset errors
	ErrMalformedDataset = errors.New("malformed dataset")
)

// Error constructors with context
func NewUnknownFieldError(role, field string) error {
	return fmt.Errorf("%w: %s %q", ErrUnknownField, role, field)
}

func NewTypeMismatchError(field, want, got string) error {
	return fmt.Errorf("%w: %s is %s, %s required", ErrTypeMismatch, field, got, want)
}

func NewUnsupportedOperatorError(op string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedOperator, op)
}

func NewAmbiguousGroupsError(field string, levels int) error {
	return fmt.Errorf("%w: %s has %d levels", ErrAmbiguousGroups, field, levels)
}

func NewMalformedDatasetError(row int, reason string) error {
	return fmt.Errorf("%w: row %d: %s", ErrMalformedDataset, row, reason)
}

// Error checking helpers
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}

func IsDatasetError(err error) bool {
	return errors.Is(err, ErrMalformedDataset)
}
