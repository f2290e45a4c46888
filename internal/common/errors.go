// Package common defines the error taxonomy shared by all client layers.
// Transport outcomes, validation failures and service errors are normalized
// into a single tagged Error value at the boundary, so the session and
// storage layers never branch on raw response shapes. Callers match kinds
// with errors.As / IsKind.
package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorKind enumerates the recovery-relevant failure classes.
type ErrorKind string

const (
	// KindUnauthorized means the session is invalid; it resets the session
	// and clears the identity cache wherever it surfaces.
	KindUnauthorized ErrorKind = "unauthorized"

	// KindForbidden means the server refused the operation for the current
	// identity. Surfaced to the user, session state untouched.
	KindForbidden ErrorKind = "forbidden"

	// KindNotFound means the addressed resource does not exist.
	KindNotFound ErrorKind = "not_found"

	// KindConflict means the request clashed with existing server state.
	KindConflict ErrorKind = "conflict"

	// KindValidation carries per-field messages for inline form feedback.
	KindValidation ErrorKind = "validation"

	// KindServerFault covers server-side failures and unexpected statuses.
	KindServerFault ErrorKind = "server_fault"

	// KindNetworkUnreachable means no response was received at all.
	KindNetworkUnreachable ErrorKind = "network_unreachable"
)

// Error is the normalized failure value produced by the classifier and by
// local validation. Fields is populated only for KindValidation.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if e.Kind == KindValidation && len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
		}
		return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
	}
	return e.Message
}

// NewError builds an Error with the given kind and message.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewValidationError builds a KindValidation error with per-field messages.
func NewValidationError(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// AsError unwraps err into an *Error if one is present in its chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err carries an Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	if e, ok := AsError(err); ok {
		return e.Kind == kind
	}
	return false
}

// Ensure reattributes an arbitrary error as an *Error. Errors that already
// carry a taxonomy kind are returned unchanged; anything else is treated as
// a server fault so the core never sees an unclassified failure.
func Ensure(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := AsError(err); ok {
		return e
	}
	return &Error{Kind: KindServerFault, Message: err.Error()}
}
