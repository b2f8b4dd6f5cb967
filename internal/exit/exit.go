// Package exit defines the documented process exit codes and the error
// type that carries them through the command layer.
package exit

import (
	"errors"
	"fmt"
)

// Exit codes. Calling automation branches on these, so they are part of
// the CLI contract and must stay stable.
const (
	OK                    = 0
	Failure               = 1
	Usage                 = 2
	NotARepo              = 3
	NoOriginRemote        = 4
	RemoteHostMismatch    = 5
	BranchNotFound        = 6
	BlockedByMarker       = 99
	BlockedByPath         = 100
	MissingRequiredMarker = 101
)

// Error is an error with an associated process exit code.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an Error carrying the given exit code.
func Errorf(code int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Err: fmt.Errorf(format, args...)}
}

// CodeOf extracts the exit code from err. A nil error is OK; an error
// without an explicit code is a generic Failure.
func CodeOf(err error) int {
	if err == nil {
		return OK
	}
	var exitErr *Error
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return Failure
}
