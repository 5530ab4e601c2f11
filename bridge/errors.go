package bridge

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below via errors.Is.
var (
	ErrMissingRequiredParameter = errors.New("missing required parameter")
	ErrTypeMismatch             = errors.New("parameter type mismatch")
	ErrArityMismatch            = errors.New("invalid parameter count")
	ErrInvocationFailure        = errors.New("function invocation failed")
	ErrDuplicateRegistration    = errors.New("duplicate helper registration")
)

// MissingRequiredParameterError reports a required parameter with no bound value.
type MissingRequiredParameterError struct {
	Function  string `json:"function"`
	Parameter string `json:"parameter"`
}

func (e *MissingRequiredParameterError) Error() string {
	if e.Parameter == "" {
		return fmt.Sprintf("no arguments are provided for %s", e.Function)
	}
	return fmt.Sprintf("parameter %s is required for function %s", e.Parameter, e.Function)
}

// Is matches ErrMissingRequiredParameter.
func (e *MissingRequiredParameterError) Is(target error) bool {
	return target == ErrMissingRequiredParameter
}

// TypeMismatchError reports an argument whose type cannot bind to its parameter.
type TypeMismatchError struct {
	Function  string `json:"function"`
	Parameter string `json:"parameter"`
	Expected  string `json:"expected"`
	Received  string `json:"received"`
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("invalid parameter type for function %s: parameter %s expects type %s but received %s",
		e.Function, e.Parameter, e.Expected, e.Received)
}

// Is matches ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// ArityMismatchError reports a positional call with too few or too many values.
type ArityMismatchError struct {
	Function string `json:"function"`
	Got      int    `json:"got"`
	Required int    `json:"required"`
	Total    int    `json:"total"`
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("invalid parameter count for function %s: %d were specified but %d to %d are accepted",
		e.Function, e.Got, e.Required, e.Total)
}

// Is matches ErrArityMismatch.
func (e *ArityMismatchError) Is(target error) bool { return target == ErrArityMismatch }

// InvocationError wraps a failure raised by the invoked function, unchanged.
type InvocationError struct {
	Function string
	Err      error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("function %s failed: %v", e.Function, e.Err)
}

// Unwrap returns the underlying failure.
func (e *InvocationError) Unwrap() error { return e.Err }

// Is matches ErrInvocationFailure.
func (e *InvocationError) Is(target error) bool { return target == ErrInvocationFailure }

// DuplicateRegistrationError reports a helper name that is already taken,
// either by the engine or by another function in the same registration.
type DuplicateRegistrationError struct {
	Helper string
	Err    error
}

func (e *DuplicateRegistrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("helper %s already registered: %v", e.Helper, e.Err)
	}
	return fmt.Sprintf("helper %s already registered", e.Helper)
}

// Unwrap returns the engine error, if any.
func (e *DuplicateRegistrationError) Unwrap() error { return e.Err }

// Is matches ErrDuplicateRegistration.
func (e *DuplicateRegistrationError) Is(target error) bool { return target == ErrDuplicateRegistration }
