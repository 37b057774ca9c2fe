// Package fault classifies the errors returned by the coder.
//
// Every error that leaves an encode or decode call carries a Kind, which the
// command line binaries translate into an exit code.
package fault

import (
	"fmt"

	"github.com/pkg/errors"
)

// A Kind is the class of an error.
type Kind int

const (
	// Unknown is the Kind of errors not created by this package.
	Unknown Kind = iota

	// Argument reports invalid caller input, such as a block length outside [1,16]
	// or an input too short to be modeled.
	Argument

	// IO reports a failure to open, read or write a file.
	IO

	// Format reports a container whose contents are inconsistent with its header.
	Format

	// Internal reports a broken invariant inside the coder itself.
	Internal
)

func (k Kind) String() string {
	switch k {
	case Argument:
		return "argument error"
	case IO:
		return "io error"
	case Format:
		return "format error"
	case Internal:
		return "internal inconsistency"
	default:
		return "unknown error"
	}
}

// ExitCode returns the process exit status for an error of kind k.
func (k Kind) ExitCode() int {
	switch k {
	case IO:
		return 2
	case Format, Internal:
		return 3
	default:
		return 1
	}
}

// An Error is an error annotated with its Kind.
type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string {
	return e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}

// Cause lets errors.Cause reach the root of the wrapped chain.
func (e *Error) Cause() error {
	return e.err
}

// Format prints the wrapped stack trace for %+v.
func (e *Error) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s: %+v", e.Kind, e.err)
		return
	}
	fmt.Fprint(s, e.Error())
}

// New returns an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, err: errors.Errorf(format, args...)}
}

// Wrap annotates err with a message.
// If err already has a Kind, that Kind is kept, otherwise err becomes of the given kind.
// Wrap returns nil if err is nil.
func Wrap(kind Kind, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	wrapped := errors.Wrapf(err, format, args...)
	var fe *Error
	if errors.As(err, &fe) {
		return wrapped
	}
	return &Error{Kind: kind, err: wrapped}
}

// KindOf returns the Kind of err, or Unknown if err was not created by this package.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

// Is reports whether err is of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
