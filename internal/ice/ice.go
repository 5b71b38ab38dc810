// Package ice defines the internal-compiler-error type: a panic value every
// pipeline phase can raise when it hits a condition its own invariants say is
// unreachable (an exhaustiveness switch falling to its default case, a type
// the interner never produced, a lowering step given an AST node sema should
// already have rejected). It is deliberately distinct from a diag.Diagnostic:
// diagnostics describe the user's program; an Error describes a bug in the
// compiler itself.
//
// Grounded on internal/tqerrors's dual-message error (a terse Error() paired
// with a human-facing message), generalized from "interpreter vs. player"
// to "compiler bug vs. operator report".
package ice

import (
	"errors"
	"fmt"
)

// Error is an internal compiler error: something the compiler itself should
// never let escape to a diagnostic, reported instead as a distinct failure
// mode so it is never confused with a report about the user's source.
type Error struct {
	Phase   string // e.g. "sema", "irgen", "lexer"
	msg     string
	report  string
	wrapped error
}

func (e *Error) Error() string {
	return e.msg
}

// Report returns the longer, operator-facing description suitable for a bug
// report — what the compiler was doing and what it found instead.
func (e *Error) Report() string {
	return e.report
}

// Unwrap gives the error this one wraps, if any.
func (e *Error) Unwrap() error {
	return e.wrapped
}

// New returns a new internal compiler error attributed to phase, with msg as
// its terse Error() text and report as the longer operator-facing
// description. If report is empty, one is derived from msg.
func New(phase, msg, report string) error {
	if report == "" {
		report = fmt.Sprintf("internal compiler error in %s: %s", phase, msg)
	}
	return &Error{Phase: phase, msg: msg, report: report}
}

// Newf is New with a formatted msg and an automatically generated report.
func Newf(phase, format string, a ...interface{}) error {
	return New(phase, fmt.Sprintf(format, a...), "")
}

// Wrap returns a new internal compiler error that also wraps a lower-level
// cause, e.g. a panic recovered mid-phase.
func Wrap(phase string, cause error, msg string) error {
	if msg == "" {
		msg = fmt.Sprintf("internal compiler error in %s: %v", phase, cause)
	}
	return &Error{Phase: phase, msg: msg, wrapped: cause,
		report: fmt.Sprintf("internal compiler error in %s: %s (caused by: %v)", phase, msg, cause)}
}

// Is reports whether err is (or wraps) an internal compiler Error.
func Is(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// Recover turns a recovered panic value into an internal compiler error
// attributed to phase. Call it in a deferred recover() at the boundary of
// each pipeline phase so a programmer bug surfaces as a reported Error
// instead of crashing the whole process.
func Recover(phase string, r interface{}) error {
	if r == nil {
		return nil
	}
	if err, ok := r.(error); ok {
		return Wrap(phase, err, "")
	}
	return New(phase, fmt.Sprintf("panic: %v", r), "")
}
