// Package apperr defines the failure kinds surfaced by git-me. Every kind is
// fatal for the current invocation; callers only use them to pick a message.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrPrecondition = errors.New("precondition not met")
	ErrNotFound     = errors.New("not found")
	ErrTransport    = errors.New("remote call failed")
	ErrEditor       = errors.New("editor failed")
)

// Error attaches a kind to a message and an optional cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func Precondition(format string, args ...any) error {
	return &Error{Kind: ErrPrecondition, Msg: fmt.Sprintf(format, args...)}
}

// Transport wraps a failed remote call.
func Transport(err error, format string, args ...any) error {
	return &Error{Kind: ErrTransport, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Editor wraps a failed editor launch or wait.
func Editor(err error, format string, args ...any) error {
	return &Error{Kind: ErrEditor, Msg: fmt.Sprintf(format, args...), Err: err}
}

// NotFoundError reports a missing remote object together with every value
// that would have been accepted, so the operator can fix the next invocation.
type NotFoundError struct {
	What  string
	Name  string
	Known []string
	Hint  string
}

func NotFound(what, name string, known []string) *NotFoundError {
	return &NotFoundError{What: what, Name: name, Known: known}
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "unable to find %s '%s'", e.What, e.Name)
	if len(e.Known) > 0 {
		fmt.Fprintf(&b, "; known values are:")
		for _, k := range e.Known {
			fmt.Fprintf(&b, "\n    %s", k)
		}
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
