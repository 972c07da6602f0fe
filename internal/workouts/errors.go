package workouts

import (
	"errors"
	"fmt"
)

var (
	ErrNoCategories    = errors.New("no categories found")
	ErrMissingFields   = errors.New("missing fields")
	ErrMissingCategory = errors.New("missing category")
	ErrInvalidFormat   = errors.New("invalid format")
	ErrMissingWorkout  = errors.New("workout string is missing")
	ErrInvalidDate     = errors.New("invalid date")
)

// ValidationError is a user correctable problem with submitted input.
// Block and Line are 1-based and zero when they do not apply.
type ValidationError struct {
	Err    error
	Block  int
	Line   int
	Detail string
}

func (e *ValidationError) Error() string {
	switch {
	case errors.Is(e.Err, ErrMissingFields):
		return fmt.Sprintf("missing fields for block %d", e.Block)
	case errors.Is(e.Err, ErrMissingCategory):
		return fmt.Sprintf("missing category for line %d", e.Line)
	case errors.Is(e.Err, ErrInvalidFormat) && e.Block > 0:
		return fmt.Sprintf("invalid format for block %d: %s", e.Block, e.Detail)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Err, e.Detail)
	default:
		return e.Err.Error()
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Reason is a short, stable label for the failed rule, used in metrics.
func (e *ValidationError) Reason() string {
	switch {
	case errors.Is(e.Err, ErrNoCategories):
		return "no_categories"
	case errors.Is(e.Err, ErrMissingFields):
		return "missing_fields"
	case errors.Is(e.Err, ErrMissingCategory):
		return "missing_category"
	case errors.Is(e.Err, ErrInvalidFormat):
		return "invalid_format"
	case errors.Is(e.Err, ErrMissingWorkout):
		return "missing_workout"
	case errors.Is(e.Err, ErrInvalidDate):
		return "invalid_date"
	default:
		return "other"
	}
}

func invalidFormat(block int, format string, args ...any) *ValidationError {
	return &ValidationError{
		Err:    ErrInvalidFormat,
		Block:  block,
		Detail: fmt.Sprintf(format, args...),
	}
}
