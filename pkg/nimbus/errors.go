package nimbus

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// StatusClass is the normalized HTTP-level class of an API failure. The
// transport assigns it from the response status; nothing above the
// transport inspects raw status codes.
type StatusClass int

const (
	StatusUnknown StatusClass = iota
	StatusUnauthorized
	StatusForbidden
	StatusNotFound
	StatusConflict
	StatusLocked
	StatusValidationFailed
	StatusGatewayTimeout
)

// String returns the class name for logs and test failures.
func (s StatusClass) String() string {
	switch s {
	case StatusUnauthorized:
		return "unauthorized"
	case StatusForbidden:
		return "forbidden"
	case StatusNotFound:
		return "not_found"
	case StatusConflict:
		return "conflict"
	case StatusLocked:
		return "locked"
	case StatusValidationFailed:
		return "validation_failed"
	case StatusGatewayTimeout:
		return "gateway_timeout"
	default:
		return "unknown"
	}
}

// FieldError is one field/reason pair from a validation failure.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Render formats the pair the way the CLI presents it: field name
// capitalized, underscores replaced, reason appended verbatim.
func (e FieldError) Render() string {
	field := strings.ReplaceAll(e.Field, "_", " ")
	if field != "" {
		runes := []rune(field)
		runes[0] = unicode.ToUpper(runes[0])
		field = string(runes)
	}

	return fmt.Sprintf("%s %s", field, e.Reason)
}

// APIFailure is the normalized shape of every non-2xx API response. It is
// the only error type the command layer classifies.
type APIFailure struct {
	StatusClass StatusClass
	Message     string
	Errors      []FieldError
	// Resource names what was missing on NotFound ("organization",
	// "cloud", "virtual_server").
	Resource string
	// State carries the cloud's current state on Conflict failures.
	State string
	// URL is an optional follow-up link, e.g. the password reset page on
	// login failures.
	URL string
}

// Error implements the error interface.
func (f *APIFailure) Error() string {
	if f.Message != "" {
		return fmt.Sprintf("%s: %s", f.StatusClass, f.Message)
	}

	return f.StatusClass.String()
}

// ErrorKind is the closed classification every remote failure maps onto.
// Commands choose narratives per kind; KindUnexpected is always re-raised
// to the process boundary instead of being rendered.
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindValidationFailed
	KindConflict
	KindLocked
	KindGatewayTimeout
)

// Classify maps an API failure onto its kind. Total: any combination it
// does not recognize becomes KindUnexpected.
func Classify(f *APIFailure) ErrorKind {
	if f == nil {
		return KindUnexpected
	}

	switch f.StatusClass {
	case StatusUnauthorized:
		return KindUnauthorized
	case StatusForbidden:
		return KindForbidden
	case StatusNotFound:
		return KindNotFound
	case StatusValidationFailed:
		return KindValidationFailed
	case StatusConflict:
		return KindConflict
	case StatusLocked:
		return KindLocked
	case StatusGatewayTimeout:
		return KindGatewayTimeout
	default:
		return KindUnexpected
	}
}

// AsFailure extracts an *APIFailure from an error chain.
func AsFailure(err error) (*APIFailure, bool) {
	var failure *APIFailure
	if errors.As(err, &failure) {
		return failure, true
	}

	return nil, false
}

// ClassifyErr is Classify over an arbitrary error: anything that is not an
// APIFailure is unexpected by definition.
func ClassifyErr(err error) ErrorKind {
	if failure, ok := AsFailure(err); ok {
		return Classify(failure)
	}

	return KindUnexpected
}
