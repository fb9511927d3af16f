package rextract

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrInvalidPattern is matched by *PatternError.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrGroupIndexOutOfRange is matched by *GroupRangeError.
	ErrGroupIndexOutOfRange = errors.New("group index out of range")

	// ErrUnsupportedType is matched by *TypeError.
	ErrUnsupportedType = errors.New("unsupported column type")
)

// PatternError reports a pattern that is not a valid regular expression.
type PatternError struct {
	Pattern string // Pattern text as given
	Err     error  // Underlying syntax error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

func (e *PatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}

// GroupRangeError reports a group index the pattern does not have.
// It is returned before any row is processed.
type GroupRangeError struct {
	Group  int // Requested group
	Groups int // Number of capturing groups in the pattern
}

func (e *GroupRangeError) Error() string {
	return fmt.Sprintf("group index %d out of range: pattern has %d capturing groups", e.Group, e.Groups)
}

func (e *GroupRangeError) Is(target error) bool {
	return target == ErrGroupIndexOutOfRange
}

// TypeError reports an input column that does not hold strings.
type TypeError struct {
	Type arrow.DataType
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("unsupported column type %s: want utf8 or large_utf8", e.Type)
}

func (e *TypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// IsInvalidPattern reports whether err is a PatternError and returns it.
func IsInvalidPattern(err error) (*PatternError, bool) {
	var pe *PatternError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
