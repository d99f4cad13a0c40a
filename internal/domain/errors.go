package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for user-recoverable preconditions. Handlers report these
// as a single error line and keep the loop alive.
var (
	// ErrNotAuthenticated is returned when the backend reports missing or
	// expired credentials.
	ErrNotAuthenticated = errors.New("backend is not authenticated")

	// ErrNoContentToRefine is returned when free-text feedback arrives before
	// anything has been generated.
	ErrNoContentToRefine = errors.New("nothing to refine yet: generate some content first (try /title)")

	// ErrNothingToExport is returned when export runs before any field of the
	// accumulator has been populated.
	ErrNothingToExport = errors.New("nothing to export yet: generate at least one field first")

	// ErrNoImageProvider is returned when no image-generation credentials are
	// configured.
	ErrNoImageProvider = errors.New("no image provider configured: set OPENAI_API_KEY or GEMINI_API_KEY")

	// ErrInterrupted marks a user interrupt during a sub-prompt. It is
	// navigation, not a failure.
	ErrInterrupted = errors.New("interrupted")

	// ErrSessionClosed is returned when an operation reaches a manager whose
	// session has been destroyed.
	ErrSessionClosed = errors.New("session is closed")
)

// ConnectionError wraps a transport failure while talking to the backend.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("backend connection failed during %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// GenerationError carries the backend's failure message for one content kind.
// The session stays usable for the next command.
type GenerationError struct {
	Kind    ContentKind
	Message string
}

func (e *GenerationError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("generation failed: %s", e.Message)
	}
	return fmt.Sprintf("%s generation failed: %s", e.Kind.DisplayName(), e.Message)
}
