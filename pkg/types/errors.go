package types

import (
	"errors"
	"fmt"
)

// ErrorKind is the user-facing classification of a failed check.
type ErrorKind string

const (
	KindNone              ErrorKind = ""                   // KindNone means the check succeeded.
	KindNoTextFound       ErrorKind = "no_text_found"      // KindNoTextFound means the selection or page was empty.
	KindPageUnreachable   ErrorKind = "page_unreachable"   // KindPageUnreachable means the page context is gone or cannot be scripted.
	KindHostUnavailable   ErrorKind = "host_unavailable"   // KindHostUnavailable means the host could not be started or reached.
	KindHostError         ErrorKind = "host_error"         // KindHostError means the host answered badly or not at all.
	KindUnexpectedFailure ErrorKind = "unexpected_failure" // KindUnexpectedFailure is everything else.
)

// ErrNoText marks an empty post-trim selection or page.
var ErrNoText = errors.New("no text to check")

// CheckError attaches a kind to a cause.
type CheckError struct {
	Kind ErrorKind
	Err  error
}

// NewCheckError wraps err with kind.
func NewCheckError(kind ErrorKind, err error) *CheckError {
	return &CheckError{Kind: kind, Err: err}
}

func (e *CheckError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *CheckError) Unwrap() error { return e.Err }

// KindOf returns the kind carried by err, KindNone for nil and
// KindUnexpectedFailure for anything unclassified.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	if errors.Is(err, ErrNoText) {
		return KindNoTextFound
	}
	return KindUnexpectedFailure
}
