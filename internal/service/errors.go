package service

import (
	"fmt"

	"backend/internal/model"
)

// ValidationError reports malformed or missing required fields at creation.
// The create call is rejected locally; no partial request is ever written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// InvalidTransitionError reports an operation that is not legal from the
// request's current stage. Never retried automatically.
type InvalidTransitionError struct {
	From   model.RequestStage
	Action string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a request in stage %s", e.Action, e.From)
}

// PermissionDeniedError reports that the actor's role or capability does not
// permit the action. The action is never attempted.
type PermissionDeniedError struct {
	Reason string
}

func (e *PermissionDeniedError) Error() string {
	return e.Reason
}

// ConcurrentModificationError reports a transition that lost a race against
// another transition on the same request. The caller should re-fetch and may
// retry once with fresh state.
type ConcurrentModificationError struct {
	RequestID string
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("request %s was modified concurrently, re-fetch and retry", e.RequestID)
}

// StorageUnavailableError reports that the repository did not respond within
// the bounded wait. The whole operation fails; no partial state is left.
type StorageUnavailableError struct {
	Op  string
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a missing request, comment, or document
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}
