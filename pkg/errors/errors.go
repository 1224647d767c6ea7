// Package errors provides a typed error used across the scheduling engine,
// matching the taxonomy in the engine's error-handling design: data loading,
// configuration, phase execution and fixed-subject protection failures all
// carry a stable Code so callers can branch on failure kind without string
// matching.
package errors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	CodeDataLoading              Code = "DATA_LOADING"
	CodeConfiguration            Code = "CONFIGURATION"
	CodePhaseExecution           Code = "PHASE_EXECUTION"
	CodeFixedSubjectProtection   Code = "FIXED_SUBJECT_PROTECTION"
	CodeInternal                 Code = "INTERNAL"
)

// Error is a typed domain error. Err, when set, is the underlying cause.
type Error struct {
	Code    Code
	Phase   string // set for CodePhaseExecution
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Phase != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s[%s]: %s: %v", e.Code, e.Phase, e.Message, e.Err)
		}
		return fmt.Sprintf("%s[%s]: %s", e.Code, e.Phase, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a bare typed error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an existing error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// WrapPhase wraps err as a PhaseExecution failure naming the phase, per the
// engine's propagation policy: phase-internal invariant breaks are wrapped
// and re-thrown with the phase name, aborting the run.
func WrapPhase(err error, phase, message string) *Error {
	return &Error{Code: CodePhaseExecution, Phase: phase, Message: message, Err: err}
}

// ErrFixedSubjectProtection is returned by Schedule.Assign when the target
// cell is locked. Placers check for it with errors.Is and skip the cell.
var ErrFixedSubjectProtection = New(CodeFixedSubjectProtection, "cell is locked and cannot be modified")

// Is reports whether err is (or wraps) a *Error carrying code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// FromError normalises any error into a *Error, defaulting to CodeInternal.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, CodeInternal, "internal error")
}
