package engine

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID has no live state.
var ErrSessionNotFound = errors.New("session not found")

// ValidationError rejects a malformed or missing answer. Recoverable:
// session state is left unchanged and the caller can resubmit.
type ValidationError struct {
	Field  string // e.g. "question_42"
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// NavigationError flags a no-op move: retreating from the first question
// or advancing a finished session. Never fatal.
type NavigationError struct {
	AtStart bool
	AtEnd   bool
	Reason  string
}

func (e *NavigationError) Error() string {
	return "navigation: " + e.Reason
}

// DefinitionError means the quiz definition references something that
// does not exist. Authoring data is corrupt, so the session is aborted
// and the error surfaced verbatim for logging.
type DefinitionError struct {
	Kind string // "question", "option", "rule"
	ID   int64
	Msg  string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("definition: %s %d: %s", e.Kind, e.ID, e.Msg)
}

// CatalogError wraps an item-catalog failure during completion. The
// scorer degrades (unconfirmed items are dropped) instead of aborting;
// callers log it and keep the shortened result.
type CatalogError struct {
	Err error
}

func (e *CatalogError) Error() string {
	return "catalog: " + e.Err.Error()
}

func (e *CatalogError) Unwrap() error { return e.Err }
