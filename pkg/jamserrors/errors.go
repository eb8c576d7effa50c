// Package jamserrors defines the error taxonomy shared across the model
// manager subsystem. Kinds are not Go types in the exported API; callers
// use Is(err, kind) or KindOf(err) to branch on the taxonomy described in
// the design.
package jamserrors

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies a failure into one of the taxonomy buckets.
type Kind string

const (
	KindConfig       Kind = "ConfigError"
	KindStoreInit    Kind = "StoreInitError"
	KindFetch        Kind = "FetchError"
	KindLoad         Kind = "LoadError"
	KindParse        Kind = "ParseError"
	KindPredict      Kind = "PredictError"
	KindNotFound     Kind = "NotFound"
)

// Error is a taxonomy-tagged error. Detail carries a human-readable message
// that is safe to return to API callers (no stack traces, no internal paths).
type Error struct {
	Kind   Kind
	Detail string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.cause }

// Format supports "%+v", printing the tagged detail followed by the cause's
// captured stack trace (via github.com/pkg/errors) when there is one.
func (e *Error) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s: %s", e.Kind, e.Detail)
		if e.cause != nil {
			fmt.Fprintf(s, "\n%+v", e.cause)
		}
		return
	}
	fmt.Fprint(s, e.Error())
}

// New creates a taxonomy error with no underlying cause. detail is an
// fmt.Sprintf format string; pass args when it contains verbs.
func New(kind Kind, detail string, args ...interface{}) error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{Kind: kind, Detail: detail}
}

// Wrap creates a taxonomy error around an underlying cause, capturing a
// stack trace at the call site (via github.com/pkg/errors) when cause
// doesn't already carry one. detail is an fmt.Sprintf format string; pass
// args when it contains verbs.
func Wrap(kind Kind, cause error, detail string, args ...interface{}) error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	if cause == nil {
		return &Error{Kind: kind, Detail: detail}
	}
	if _, hasStack := cause.(interface{ StackTrace() pkgerrors.StackTrace }); !hasStack {
		cause = pkgerrors.WithStack(cause)
	}
	return &Error{Kind: kind, Detail: detail, cause: cause}
}

// KindOf extracts the Kind tagged on err, walking the unwrap chain. The
// second return is false if no tagged *Error is found.
func KindOf(err error) (Kind, bool) {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind, true
	}
	return "", false
}

// Is reports whether err carries the given Kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// NotFound builds the standard NotFound error for an admin operation that
// referenced an absent model.
func NotFound(name string) error {
	return New(KindNotFound, fmt.Sprintf("model %q not found", name))
}
