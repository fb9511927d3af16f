package udf

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrSignatureMismatch is matched by *SignatureError.
	ErrSignatureMismatch = errors.New("signature mismatch")

	// ErrUnsupportedDynamicArguments is matched by *DynamicArgumentError.
	ErrUnsupportedDynamicArguments = errors.New("unsupported dynamic arguments")

	// ErrUnknownFunction is returned by Registry.Call for unregistered names.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrDuplicateFunction is returned by Registry.Register when the name
	// is already taken.
	ErrDuplicateFunction = errors.New("function already registered")
)

// SignatureError reports arguments that do not fit a function's signature.
type SignatureError struct {
	Function string // Function name
	Message  string // What did not fit
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("%s: signature mismatch: %s", e.Function, e.Message)
}

func (e *SignatureError) Is(target error) bool {
	return target == ErrSignatureMismatch
}

// DynamicArgumentError reports a parameter that must be constant for the
// whole call but was given per-row values.
type DynamicArgumentError struct {
	Function string // Function name
	Param    string // Parameter name
}

func (e *DynamicArgumentError) Error() string {
	return fmt.Sprintf("%s: argument %q must be a constant scalar", e.Function, e.Param)
}

func (e *DynamicArgumentError) Is(target error) bool {
	return target == ErrUnsupportedDynamicArguments
}

// CallError wraps an error raised by the operator behind a function.
// The cause keeps its kind: errors.Is and errors.As see through CallError.
type CallError struct {
	Function string
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Function, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}
