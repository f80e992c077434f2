// Package errors provides error handling for autobuild.
//
// This package re-exports github.com/cockroachdb/errors (stack traces,
// wrapping, user hints) and defines the sentinel errors that classify
// every generation failure. Callers wrap a sentinel to add context and
// test for the kind with errors.Is:
//
//	if errors.Is(err, errors.ErrMissingReturnDocumentation) && !strict {
//	    // substitute and continue
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

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
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Generation error kinds.
var (
	// ErrUnresolvableModule: a library attribute has no namespace, or its
	// namespace does not yield exactly one implementing class.
	ErrUnresolvableModule = New("unresolvable module")

	// ErrDocumentationCorruption: a parameter block names two different
	// parameters in its type and description clauses.
	ErrDocumentationCorruption = New("documentation corruption")

	// ErrUnresolvedParameterType: no translation exists for a documented type.
	ErrUnresolvedParameterType = New("unresolved parameter type")

	// ErrMissingReturnDocumentation: a non-deprecated method documents no return value.
	ErrMissingReturnDocumentation = New("missing return documentation")

	// ErrMissingTemplate: a named template could not be found.
	ErrMissingTemplate = New("missing template")

	// ErrMissingOutputPath: the output root or project path is not configured.
	ErrMissingOutputPath = New("missing output path")

	// ErrTemplatePlaceholder: a template references a value the renderer does not supply.
	ErrTemplatePlaceholder = New("unknown template placeholder")

	// ErrInvalidManifest: the library manifest is malformed or incompatible.
	ErrInvalidManifest = New("invalid manifest")

	// ErrInvalidConfig indicates the configuration failed validation
	ErrInvalidConfig = New("invalid configuration")
)

// IsFatal reports whether err must abort a run. Only missing return
// documentation is downgraded, and only in lenient mode.
func IsFatal(err error, strict bool) bool {
	if err == nil {
		return false
	}
	if !strict && Is(err, ErrMissingReturnDocumentation) {
		return false
	}
	return true
}

// Kind returns the sentinel classifying err, or nil for unclassified errors.
func Kind(err error) error {
	for _, sentinel := range []error{
		ErrUnresolvableModule,
		ErrDocumentationCorruption,
		ErrUnresolvedParameterType,
		ErrMissingReturnDocumentation,
		ErrMissingTemplate,
		ErrMissingOutputPath,
		ErrTemplatePlaceholder,
		ErrInvalidManifest,
		ErrInvalidConfig,
	} {
		if Is(err, sentinel) {
			return sentinel
		}
	}
	return nil
}
