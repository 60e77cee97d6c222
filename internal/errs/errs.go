// Package errs defines the discriminated error kinds shared across
// mvnlaunch's components, per spec.md §7.
package errs

import (
	"errors"
	"fmt"
)

// Kind discriminates the class of failure so callers (and exit-code
// mapping in cmd/mvnlaunch) can react without string-matching messages.
type Kind int

const (
	// KindParse covers malformed coordinate/endpoint/POM/project-file input.
	KindParse Kind = iota
	// KindNotFound means a POM or artifact is missing in all configured repositories.
	KindNotFound
	// KindNotAvailableOffline means offline mode hit a cache miss.
	KindNotAvailableOffline
	// KindConflict means an irreconcilable version constraint was found in strict mode.
	KindConflict
	// KindIntegrity means a SHA-256 mismatch against a lock file or sidecar.
	KindIntegrity
	// KindResolution covers parent cycles, exceeded depth, and interpolation cycles.
	KindResolution
	// KindIO covers filesystem or network failures with a source cause.
	KindIO
	// KindLaunch covers no/ambiguous main class or incompatible JDK version.
	KindLaunch
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindNotFound:
		return "NotFound"
	case KindNotAvailableOffline:
		return "NotAvailableOffline"
	case KindConflict:
		return "Conflict"
	case KindIntegrity:
		return "IntegrityError"
	case KindResolution:
		return "ResolutionError"
	case KindIO:
		return "IOErr"
	case KindLaunch:
		return "LaunchError"
	default:
		return "UnknownError"
	}
}

// Error is the structured error type every component boundary returns.
// It enriches the underlying cause with the coordinate chain, file path,
// or URL that was in play when the failure occurred.
type Error struct {
	Kind    Kind
	Context string // e.g. "org.apache.commons:commons-lang3:3.12.0" or a file path/URL
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Context)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error with no wrapped cause.
func New(kind Kind, context string) *Error {
	return &Error{Kind: kind, Context: context}
}

// Wrap builds an Error around an existing cause, enriching it with context.
func Wrap(kind Kind, context string, cause error) *Error {
	return &Error{Kind: kind, Context: context, Cause: cause}
}

// Is reports whether err is an *Error of the given Kind, unwrapping as needed.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
