// Package oerrors provides error handling for orizon-derive.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Assertion errors for internal invariant violations
//
// Usage:
//
//	// Create new error
//	err := oerrors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return oerrors.Wrap(err, "failed to do something")
//	}
//
//	// Check sentinel conditions
//	if oerrors.Is(err, oerrors.ErrUnsupportedTarget) {
//	    // the derive request was reported and skipped
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package oerrors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is     = crdb.Is
	IsAny  = crdb.IsAny
	As     = crdb.As
	Unwrap = crdb.Unwrap
)

// Error accumulation
var (
	Join          = crdb.Join
	CombineErrors = crdb.CombineErrors
)

// Assertions and panics
var (
	AssertionFailedf                 = crdb.AssertionFailedf
	NewAssertionErrorWithWrappedErrf = crdb.NewAssertionErrorWithWrappedErrf
)

// Sentinel errors for derive expansion.
// Use these with oerrors.Is() for type-safe error checking.
// Wrap these with oerrors.Wrap() to add context while preserving the type.
var (
	// ErrUnsupportedTarget indicates a derive request against a declaration
	// the trait cannot be derived for (for example a union without opt-in).
	// The condition is reported through the diagnostic sink before this
	// sentinel is returned.
	ErrUnsupportedTarget = New("unsupported derive target")

	// ErrUnexpandableTypeMacro indicates a field type contained a macro
	// invocation that cannot be traversed for bound inference.
	ErrUnexpandableTypeMacro = New("cannot derive over a type macro")

	// ErrUnknownTrait indicates a derive request named a trait the registry
	// does not know.
	ErrUnknownTrait = New("unknown derivable trait")

	// ErrUnstableTrait indicates a derive request named a trait gated behind
	// an unstable feature or a newer language version.
	ErrUnstableTrait = New("trait not available")
)

// IsUserError reports whether err is one of the sentinel conditions that is
// reported through the diagnostic sink rather than aborting the tool.
func IsUserError(err error) bool {
	return IsAny(err, ErrUnsupportedTarget, ErrUnexpandableTypeMacro, ErrUnknownTrait, ErrUnstableTrait)
}
