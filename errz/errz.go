// Package errz defines the fatal error categories of a conversion run and
// the process exit codes they map to.
package errz

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrUsage indicates invalid command-line input.
	ErrUsage ErrorKind = iota + 1
	// ErrLoad indicates the module image could not be read or decoded.
	ErrLoad
	// ErrWrite indicates the rewritten module could not be saved.
	ErrWrite
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrUsage:
		return "usage error"
	case ErrLoad:
		return "load error"
	case ErrWrite:
		return "write error"
	default:
		return "error"
	}
}

// ExitCode returns the process exit status for the kind.
func (k ErrorKind) ExitCode() int {
	switch k {
	case ErrWrite:
		return 2
	default:
		return 1
	}
}

// Error is a fatal error tied to a file path.
type Error struct {
	Kind    ErrorKind
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	} else if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Path, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Usagef creates a usage error with a formatted message.
func Usagef(format string, args ...any) *Error {
	return &Error{Kind: ErrUsage, Message: fmt.Sprintf(format, args...)}
}

// Load wraps a failure to load the module at path.
func Load(path string, cause error) *Error {
	return &Error{Kind: ErrLoad, Path: path, Cause: cause}
}

// Write wraps a failure to write the module to path.
func Write(path string, cause error) *Error {
	return &Error{Kind: ErrWrite, Path: path, Cause: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// ExitCode maps an error to a process exit status: 0 for nil, 2 for write
// errors and 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if kind := KindOf(err); kind != 0 {
		return kind.ExitCode()
	}
	return 1
}
