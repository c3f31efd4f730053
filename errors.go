package img2braille

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the converter wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	// ErrInvalidDimension reports an odd width or a height that is zero
	// or not a multiple of four.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrDimensionMismatch reports a pixel buffer whose length does not
	// match width x height x channels.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrInvalidParameter reports an option outside its declared range.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ConversionError carries the details of a failed conversion.
type ConversionError struct {
	Kind   error  // one of the Err* sentinels
	Field  string // offending option or dimension, if any
	Detail string
}

func (e *ConversionError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%v: %s: %s", e.Kind, e.Field, e.Detail)
}

// Unwrap returns the error kind.
func (e *ConversionError) Unwrap() error {
	return e.Kind
}

// KindName returns a short identifier for the error kind, suitable for
// machine-readable responses.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrInvalidDimension):
		return "InvalidDimension"
	case errors.Is(err, ErrDimensionMismatch):
		return "DimensionMismatch"
	case errors.Is(err, ErrInvalidParameter):
		return "InvalidParameter"
	default:
		return ""
	}
}

func dimensionError(field, format string, args ...any) error {
	return &ConversionError{Kind: ErrInvalidDimension, Field: field, Detail: fmt.Sprintf(format, args...)}
}

func mismatchError(format string, args ...any) error {
	return &ConversionError{Kind: ErrDimensionMismatch, Detail: fmt.Sprintf(format, args...)}
}

func paramError(field, format string, args ...any) error {
	return &ConversionError{Kind: ErrInvalidParameter, Field: field, Detail: fmt.Sprintf(format, args...)}
}
