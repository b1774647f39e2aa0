/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import "fmt"

// ErrorKind identifies one of the closed set of error categories the core
// object model and subsetter can raise. The taxonomy is closed: every error
// the core returns carries one of these kinds.
type ErrorKind int

// The closed error taxonomy.
const (
	// ErrKindInvalidDataType is raised on a kind mismatch on read, a
	// mutate-wrong-kind attempt, or a compare on Unknown/RawData.
	ErrKindInvalidDataType ErrorKind = iota
	// ErrKindInvalidHandle is raised when a null or uninitialized handle is
	// passed where a value was required.
	ErrKindInvalidHandle
	// ErrKindChangeOnImmutable is raised on mutation of an immutable variant.
	ErrKindChangeOnImmutable
	// ErrKindValueOutOfRange is raised on numeric overflow on narrowing, or
	// a parameter outside its allowed set.
	ErrKindValueOutOfRange
	// ErrKindUnexpectedEOF is raised on truncated input.
	ErrKindUnexpectedEOF
	// ErrKindUnsupportedFontFormat is raised when the TrueType subsetter
	// refuses an input font program.
	ErrKindUnsupportedFontFormat
	// ErrKindUnsupportedImageFormat is raised by image codecs this core does
	// not implement (kept for taxonomy completeness; see Non-goals).
	ErrKindUnsupportedImageFormat
	// ErrKindUnsupportedFilter is raised when a stream filter name is not
	// recognized or not implemented.
	ErrKindUnsupportedFilter
	// ErrKindInternalLogic is raised on an invariant violation - a
	// programmer bug, distinct from user-data errors.
	ErrKindInternalLogic
	// ErrKindNotImplemented is raised for an optional feature not compiled
	// in.
	ErrKindNotImplemented
)

// String returns the taxonomy name of k, e.g. "InvalidDataType".
func (k ErrorKind) String() string {
	switch k {
	case ErrKindInvalidDataType:
		return "InvalidDataType"
	case ErrKindInvalidHandle:
		return "InvalidHandle"
	case ErrKindChangeOnImmutable:
		return "ChangeOnImmutable"
	case ErrKindValueOutOfRange:
		return "ValueOutOfRange"
	case ErrKindUnexpectedEOF:
		return "UnexpectedEOF"
	case ErrKindUnsupportedFontFormat:
		return "UnsupportedFontFormat"
	case ErrKindUnsupportedImageFormat:
		return "UnsupportedImageFormat"
	case ErrKindUnsupportedFilter:
		return "UnsupportedFilter"
	case ErrKindInternalLogic:
		return "InternalLogic"
	case ErrKindNotImplemented:
		return "NotImplemented"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type raised throughout the core and
// subsetter. It always carries a Kind from the closed taxonomy plus a
// human-readable message, and may wrap an underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind. This lets
// callers write errors.Is(err, core.ErrInvalidDataType) without caring
// about the message or wrapped cause.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// newError builds an *Error of the given kind with a formatted message.
func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrapError builds an *Error of the given kind, wrapping cause.
func wrapError(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Sentinel template errors usable with errors.Is(err, core.ErrXxx); compare
// only the Kind, never the Message or Cause.
var (
	ErrInvalidDataType        = &Error{Kind: ErrKindInvalidDataType}
	ErrInvalidHandle          = &Error{Kind: ErrKindInvalidHandle}
	ErrChangeOnImmutable      = &Error{Kind: ErrKindChangeOnImmutable}
	ErrValueOutOfRange        = &Error{Kind: ErrKindValueOutOfRange}
	ErrUnexpectedEOF          = &Error{Kind: ErrKindUnexpectedEOF}
	ErrUnsupportedFontFormat  = &Error{Kind: ErrKindUnsupportedFontFormat}
	ErrUnsupportedImageFormat = &Error{Kind: ErrKindUnsupportedImageFormat}
	ErrUnsupportedFilter      = &Error{Kind: ErrKindUnsupportedFilter}
	ErrInternalLogic          = &Error{Kind: ErrKindInternalLogic}
	ErrNotImplemented         = &Error{Kind: ErrKindNotImplemented}
)
