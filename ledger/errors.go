/*
errors.go - Centralized error types for the ledger

ERROR CATEGORIES:
  1. Construction errors - records rejected before they enter the core
  2. Lookup errors - operations naming ids that do not exist
  3. Persistence errors - corrupt snapshots and write conflicts

Computation over valid input (shares, netting, positions, archive, settle)
never fails. Every error here comes from a boundary.
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidItem is returned when an item draft has no consumers, a
	// non-positive price, or references an unknown participant.
	ErrInvalidItem = errors.New("invalid item")

	// ErrInvalidParticipant is returned when a participant draft has no name.
	ErrInvalidParticipant = errors.New("invalid participant")

	// ErrUnknownParticipant is returned when an operation names a participant
	// that is not in the ledger.
	ErrUnknownParticipant = errors.New("unknown participant")

	ErrUnknownItem   = errors.New("unknown item")
	ErrUnknownReport = errors.New("unknown report")

	// ErrParticipantInUse is returned when removing a participant that an
	// open item still assigns or names as payer.
	ErrParticipantInUse = errors.New("participant referenced by open items")

	// ErrCorruptState is returned when a persisted snapshot does not decode
	// into a structurally valid State.
	ErrCorruptState = errors.New("corrupt persisted state")

	// ErrConcurrentModification is returned by a StateStore when the stored
	// version no longer matches the version the write was based on.
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidItemError names the offending field of a rejected item.
type InvalidItemError struct {
	Field  string
	Reason string
}

func (e *InvalidItemError) Error() string {
	return fmt.Sprintf("invalid item: %s %s", e.Field, e.Reason)
}

func (e *InvalidItemError) Unwrap() error {
	return ErrInvalidItem
}

type UnknownParticipantError struct {
	ID ParticipantID
}

func (e *UnknownParticipantError) Error() string {
	return fmt.Sprintf("unknown participant: %q", e.ID)
}

func (e *UnknownParticipantError) Unwrap() error {
	return ErrUnknownParticipant
}

// ParticipantInUseError lists the open items that keep a participant alive.
type ParticipantInUseError struct {
	ID    ParticipantID
	Items []ItemID
}

func (e *ParticipantInUseError) Error() string {
	return fmt.Sprintf("participant %q is referenced by %d open item(s)", e.ID, len(e.Items))
}

func (e *ParticipantInUseError) Unwrap() error {
	return ErrParticipantInUse
}

type CorruptStateError struct {
	Reason string
	Err    error
}

func (e *CorruptStateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt persisted state: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("corrupt persisted state: %s", e.Reason)
}

func (e *CorruptStateError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrCorruptState, e.Err}
	}
	return []error{ErrCorruptState}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if the error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidItem) ||
		errors.Is(err, ErrInvalidParticipant) ||
		errors.Is(err, ErrParticipantInUse)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUnknownParticipant) ||
		errors.Is(err, ErrUnknownItem) ||
		errors.Is(err, ErrUnknownReport)
}
