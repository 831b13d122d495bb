// Package gatekeeper implements the Ostiarius challenge-response
// authorization protocol: the Requester/Checker pair, the allow-list loader,
// and the closed error taxonomy they share with keybackend and secretprovider.
package gatekeeper

import (
	"fmt"

	"github.com/juju/errors"
)

// Kind identifies the category of a gatekeeper Error. The set is closed:
// callers switch on it exhaustively rather than testing for arbitrary
// sentinel values.
type Kind int

// The closed taxonomy. Unauthorized is the only Kind with a dedicated
// transport status (403); every other Kind maps to 500.
const (
	// KindUnknown is never returned; its zero value catches uninitialized Errors.
	KindUnknown Kind = iota
	// KindIO is a filesystem read failure.
	KindIO
	// KindCrypto is a PEM parse, encrypt, or decrypt failure.
	KindCrypto
	// KindIntegerParse is a bad fd number in a provider spec.
	KindIntegerParse
	// KindSerialization is an allow-list file that failed to parse.
	KindSerialization
	// KindURLParse is a generic malformed URI.
	KindURLParse
	// KindEnvironment is a missing environment variable for an env: provider.
	KindEnvironment
	// KindUnauthorized is a name/command pair absent from the allow-list.
	KindUnauthorized
	// KindInvalidPath is a hostname or path that could not be rendered as UTF-8.
	KindInvalidPath
	// KindInvalidURI is a recognized scheme with a missing or malformed parameter.
	KindInvalidURI
	// KindPkcs11 is a token library error.
	KindPkcs11
	// KindInvalidKey is a PKCS#11 key not found, or with no/unexpected attributes.
	KindInvalidKey
	// KindInvalidProvider is a password-provider spec not of the form kind:arg.
	KindInvalidProvider
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "IO"
	case KindCrypto:
		return "Crypto"
	case KindIntegerParse:
		return "IntegerParse"
	case KindSerialization:
		return "Serialization"
	case KindURLParse:
		return "URLParse"
	case KindEnvironment:
		return "Environment"
	case KindUnauthorized:
		return "Unauthorized"
	case KindInvalidPath:
		return "InvalidPath"
	case KindInvalidURI:
		return "InvalidUri"
	case KindPkcs11:
		return "Pkcs11"
	case KindInvalidKey:
		return "InvalidKey"
	case KindInvalidProvider:
		return "InvalidProvider"
	default:
		return "Unknown"
	}
}

// Error is the single error type returned by the gatekeeper, keybackend, and
// secretprovider packages. It carries a Kind so callers (the transport layer
// in particular) can distinguish Unauthorized from every other failure
// without string matching.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// NewError constructs an Error of the given Kind with a formatted message.
func NewError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError annotates an existing error with a Kind, preserving it as the
// cause via github.com/juju/errors so callers can still errors.Cause() through
// to the original failure.
func WrapError(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		cause:   errors.Trace(cause),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Cause implements the github.com/juju/errors / github.com/pkg/errors Causer
// interface, so errors.Cause(err) unwraps to the underlying failure.
func (e *Error) Cause() error {
	return e.cause
}

// Is reports whether err is a gatekeeper Error of the given Kind. It asserts
// on err directly rather than on errors.Cause(err): Cause unwraps past *Error
// itself whenever it was built with WrapError (a non-nil cause), which would
// make the type assertion fail and Is wrongly return false.
func Is(err error, kind Kind) bool {
	gerr, ok := err.(*Error)
	if !ok {
		return false
	}
	return gerr.Kind == kind
}
