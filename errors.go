// Package synthgen generates Yosys synthesis scripts and OpenRAM memory-macro
// configurations for a processor design.
//
// The sub-packages do the work. This package only holds the error taxonomy
// that all of them share, so that callers can tell a caller mistake from a
// lookup miss from a filesystem problem.
package synthgen

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the errors returned by synthgen packages.
type ErrorKind int

// The error kinds.
const (
	KindUnknown ErrorKind = iota
	KindConfiguration
	KindNotFound
	KindIO
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "ConfigurationError"
	case KindNotFound:
		return "NotFoundError"
	case KindIO:
		return "IOFailure"
	default:
		return "UnknownError"
	}
}

// Sentinels that can be matched with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrIO            = errors.New("io failure")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindNotFound:
		return ErrNotFound
	case KindIO:
		return ErrIO
	default:
		return nil
	}
}

// Error is an error with a kind and the operation that produced it.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Configurationf creates a ConfigurationError.
func Configurationf(op, format string, args ...any) error {
	return &Error{Kind: KindConfiguration, Op: op, Err: fmt.Errorf(format, args...)}
}

// NotFoundf creates a NotFoundError.
func NotFoundf(op, format string, args ...any) error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf(format, args...)}
}

// WrapIO wraps a filesystem error into an IOFailure. It returns nil if err is
// nil.
func WrapIO(op string, err error) error {
	if err == nil {
		return nil
	}

	return &Error{Kind: KindIO, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}
