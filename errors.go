package strptime

import (
	"errors"
	"fmt"
)

// ErrValidation indicates a locale table override with the wrong shape.
var ErrValidation = errors.New("strptime: invalid locale table")

// ErrUnsupportedDirective indicates a format string uses a directive outside
// the supported set.
var ErrUnsupportedDirective = errors.New("strptime: unsupported directive")

// ErrFormatMismatch indicates the input does not match the format end to end.
var ErrFormatMismatch = errors.New("strptime: data does not match format")

// ValidationError reports an override sequence with the wrong length.
type ValidationError struct {
	Field string
	Want  int
	Got   int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("strptime: %s must have %d entries, got %d", e.Field, e.Want, e.Got)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// UnsupportedDirectiveError reports the offending directive and the format it
// was found in.
type UnsupportedDirectiveError struct {
	Directive string
	Format    string
}

func (e *UnsupportedDirectiveError) Error() string {
	if e.Directive == "" {
		return fmt.Sprintf("strptime: stray %% at end of format %q", e.Format)
	}
	return fmt.Sprintf("strptime: unsupported directive %%%s in format %q", e.Directive, e.Format)
}

func (e *UnsupportedDirectiveError) Is(target error) bool {
	return target == ErrUnsupportedDirective
}

// FormatMismatchError is returned by Parse when data cannot be matched or
// names a date that does not exist. Reason is set for the latter.
type FormatMismatchError struct {
	Data   string
	Format string
	Reason string
}

func (e *FormatMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("strptime: time data %q does not match format %q: %s", e.Data, e.Format, e.Reason)
	}
	return fmt.Sprintf("strptime: time data %q does not match format %q", e.Data, e.Format)
}

func (e *FormatMismatchError) Is(target error) bool {
	return target == ErrFormatMismatch
}
