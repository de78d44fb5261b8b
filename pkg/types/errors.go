package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the builders, validators, collections,
// and stores can produce. Presentation layers format on the kind; the core
// never prints.
type ErrorKind int

const (
	// ReferenceNotFound: a code or scientific name is absent from the catalog.
	ReferenceNotFound ErrorKind = iota
	// ParseFailure: a date or mini-language string is malformed.
	ParseFailure
	// ValidationFailure: a field is empty, too long, has the wrong word
	// count, or no observation flag is set.
	ValidationFailure
	// UniquenessViolation: a duplicate code, sname, or acode on import.
	UniquenessViolation
	// IOFailure: a file or database could not be opened, read, or written.
	IOFailure
	// StructuralInvariant: a post-mutation record was not found where it must
	// be. Indicates an internal bug.
	StructuralInvariant
)

// String returns the kind's tag for error output.
func (k ErrorKind) String() string {
	switch k {
	case ReferenceNotFound:
		return "reference not found"
	case ParseFailure:
		return "parse failure"
	case ValidationFailure:
		return "validation failure"
	case UniquenessViolation:
		return "uniqueness violation"
	case IOFailure:
		return "io failure"
	case StructuralInvariant:
		return "structural invariant"
	default:
		return "unknown"
	}
}

// Error carries an error kind plus the field and offending value it concerns,
// so callers can format or match without string inspection.
type Error struct {
	Kind  ErrorKind
	Field string // record field the failure concerns, may be empty
	Value string // offending value, may be empty
	Msg   string // human-readable description
	Err   error  // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches two *Error values on kind alone, so callers can test
// errors.Is(err, &Error{Kind: ValidationFailure}).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Errf builds an *Error with a formatted message.
func Errf(kind ErrorKind, field, format string, args ...any) *Error {
	return &Error{Kind: kind, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error around a cause.
func Wrap(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// Sentinels for conditions callers branch on directly.
var (
	ErrEmptyCatalog   = errors.New("no birds in the species database")
	ErrEmptySightings = errors.New("no records in the sightings database")
	ErrKeyNotFound    = errors.New("settings key not found")
)
