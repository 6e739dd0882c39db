package inspector

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failure for the recovery policy.
type Kind int

const (
	// KindUnknown is the kind of errors that did not come from this package.
	KindUnknown Kind = iota
	// KindUnavailable: the data directory or a database could not be read.
	KindUnavailable
	// KindNotFound: the named database or document does not exist.
	KindNotFound
	// KindNoReference: the query names no document.
	KindNoReference
	// KindIO: a located document could not be loaded or rendered.
	KindIO
	// KindCanceled: the caller gave up before the operation finished.
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindNotFound:
		return "not found"
	case KindNoReference:
		return "no reference"
	case KindIO:
		return "I/O failure"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error is returned by every operation of this package.
type Error struct {
	Op       string
	Kind     Kind
	Database string
	Err      error
}

func (e *Error) Error() string {
	if e.Database != "" {
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Database, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// kindOrCanceled returns KindCanceled when err comes from a done context, else kind.
func kindOrCanceled(err error, kind Kind) Kind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	return kind
}

// ErrNoDocumentReference is wrapped by KindNoReference errors.
var ErrNoDocumentReference = errors.New("query has no quoted document identifier")

// KindOf returns the Kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Recoverable reports whether err is shown to a client as an empty result instead of
// an error. Only KindIO and errors of unknown origin are surfaced. A canceled operation
// has nobody left to report to, so it is not an I/O failure either.
func Recoverable(err error) bool {
	switch KindOf(err) {
	case KindUnavailable, KindNotFound, KindNoReference, KindCanceled:
		return true
	default:
		return false
	}
}
