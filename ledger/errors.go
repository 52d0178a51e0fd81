/*
errors.go - Centralized error types for the rule engine

PURPOSE:
  All error types in one place for consistency and discoverability.

ERROR CATEGORIES:
  1. Fatal, batch-aborting - no usable acting identity; store failures while
     loading rules or bookings. Returned from the engine, nothing is marked.
  2. Recoverable, per-item - a requested booking is missing, a single ledger
     insert fails, or a booking is claimed by a concurrent run. Recorded as
     strings in RunResult.Errors; the batch continues.
  3. Silent defaulting - missing price configuration resolves to zero and is
     never surfaced as an error.

USAGE:
  Callers inspect RunResult.Errors for partial failures and use errors.Is()
  against the sentinels for fatal ones.

SEE ALSO:
  - engine.go: Applies the propagation policy
  - writer.go: Converts insert failures into per-write error strings
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
	// ErrNoActingIdentity is returned when no accountant ID was supplied, no
	// system accountant is configured, and no administrator account exists.
	// The whole batch is aborted and nothing is marked processed.
	ErrNoActingIdentity = errors.New("no acting identity: supply an accountant or create an administrator account")

	// ErrBookingNotFound indicates a requested booking ID has no record.
	// Per-item: the remaining bookings are still processed.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrBookingBusy indicates a concurrent run holds the processing claim
	// for a booking. Per-item: the booking is skipped, not marked by this run.
	ErrBookingBusy = errors.New("booking is already being processed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// WriteError reports a single failed ledger insert. It identifies the booking
// and category so the partial-success message is actionable.
type WriteError struct {
	BookingID int64
	Category  string
	Err       error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("booking %d: failed to write %q entry: %v", e.BookingID, e.Category, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// NotFoundError reports a requested booking ID with no matching record.
type NotFoundError struct {
	BookingID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("booking %d: not found", e.BookingID)
}

func (e *NotFoundError) Unwrap() error { return ErrBookingNotFound }
