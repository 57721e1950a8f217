// Package errs holds the error taxonomy shared by services, stores and controllers.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind uint8

const (
	Internal Kind = iota
	NotFound
	Unauthorized
	Validation
	InvalidState
	Conflict
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Unauthorized:
		return "unauthorized"
	case Validation:
		return "validation error"
	case InvalidState:
		return "invalid state transition"
	case Conflict:
		return "conflict"
	}
	return "internal error"
}

// Error is a classified failure. Op names the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinels returned by stores. Services wrap them with E.
var (
	ErrNotFound = &Error{Kind: NotFound, Op: "store", Msg: "record not found"}
	ErrConflict = &Error{Kind: Conflict, Op: "store", Msg: "record was modified concurrently"}
)

func E(kind Kind, op, msg string) error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

func Ef(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap keeps the kind of err when it already carries one and marks it
// Internal otherwise.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindOf(err), Op: op, Err: errors.WithStack(err)}
}

// KindOf walks the wrap chain and returns the first classified kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the innermost human readable message, used for API responses.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	for {
		var inner *Error
		if e.Err == nil || !errors.As(e.Err, &inner) {
			break
		}
		e = inner
	}
	if e.Msg != "" {
		return e.Msg
	}
	return e.Kind.String()
}
