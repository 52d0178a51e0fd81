/*
stores.go - Persistence interfaces for the rule engine

PURPOSE:
  Defines the interface between the engine and the database. The engine is
  read-only over rules, bookings, prices, and users; insert-only over ledger
  entries; and read/write over processed markers.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - ledger/store: In-memory for testing/dev

SEE ALSO:
  - engine.go: Consumer of these interfaces
  - store/sqlite/sqlite.go: Concrete implementation
*/
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RULE STORE - Ordered rule listing (rule CRUD is an external collaborator)
// =============================================================================

type RuleStore interface {
	// ListRules returns every rule sorted ascending by Order, ties broken by
	// insertion order. The engine evaluates the full set per booking.
	ListRules(ctx context.Context) ([]Rule, error)
}

// =============================================================================
// BOOKING STORE - Read-only view of the external booking universe
// =============================================================================

type BookingStore interface {
	// LoadBookings returns the bookings for the given IDs. Missing IDs are
	// simply absent from the result; the engine reports them per-item.
	LoadBookings(ctx context.Context, ids []int64) ([]Booking, error)

	// DistinctBookingIDs returns every distinct booking identifier known to
	// the external universe. Used to compute the unprocessed set.
	DistinctBookingIDs(ctx context.Context) ([]int64, error)
}

// =============================================================================
// ENTRY STORE - Insert-only ledger persistence
// =============================================================================

// EntryStore persists derived entries. Expenses and incomes live in separate
// collections; the writer selects by RuleType. Insert-only: the engine never
// updates or deletes entries.
type EntryStore interface {
	InsertExpense(ctx context.Context, e Entry) error
	InsertIncome(ctx context.Context, e Entry) error
}

// =============================================================================
// PROCESSED STORE - Idempotency markers with a claim step
// =============================================================================

// ClaimResult partitions the requested IDs by their marker state at claim time.
type ClaimResult struct {
	// Fresh had no marker; a processing marker was inserted for them.
	Fresh []int64
	// Rerun already had a done marker. Re-running is a caller decision and
	// proceeds (it will duplicate entries); the done marker is left in place.
	Rerun []int64
	// Busy are held by a concurrent run's processing marker and are skipped.
	Busy []int64
}

type ProcessedStore interface {
	// Claim atomically partitions ids by marker state, inserting processing
	// markers for IDs that have none.
	Claim(ctx context.Context, ids []int64) (ClaimResult, error)

	// MarkProcessed upserts a done marker with the current timestamp for
	// every ID, regardless of whether any entries were created for it.
	MarkProcessed(ctx context.Context, ids []int64) error

	// Release deletes processing markers. Only used when a fatal error aborts
	// the batch, rolling freshly claimed bookings back to unprocessed.
	Release(ctx context.Context, ids []int64) error

	// ProcessedIDs returns the subset of ids holding a done marker.
	ProcessedIDs(ctx context.Context, ids []int64) ([]int64, error)

	// AllMarkedIDs returns every booking ID with any marker (processing or
	// done). Used for the unprocessed set difference.
	AllMarkedIDs(ctx context.Context) ([]int64, error)
}

// =============================================================================
// CONFIG STORE - Price configuration consulted by the amount resolver
// =============================================================================

// ConfigStore exposes the per-room internet cost and per-category unit price
// tables. Missing configuration is reported as (zero, false), never an error:
// the resolver defaults to zero.
type ConfigStore interface {
	// InternetCost returns the configured monthly internet cost for a room.
	InternetCost(ctx context.Context, objectID, roomID string) (decimal.Decimal, bool, error)

	// CategoryPrice returns the configured price per unit for a category of
	// the given type sharing the rule's name.
	CategoryPrice(ctx context.Context, name string, ruleType RuleType) (decimal.Decimal, bool, error)
}

// =============================================================================
// USER STORE - Acting identity resolution
// =============================================================================

type UserStore interface {
	// GetUser returns the user with the given ID, nil when absent.
	GetUser(ctx context.Context, id string) (*User, error)

	// FirstAdministrator returns the administrator with the smallest ID, nil
	// when none exists. Smallest-ID ordering keeps the fallback deterministic
	// when several administrators exist.
	FirstAdministrator(ctx context.Context) (*User, error)
}

// =============================================================================
// STORES - Aggregate bundle for engine construction
// =============================================================================

// Stores bundles every interface the engine depends on. The SQLite and memory
// stores both satisfy it.
type Stores interface {
	RuleStore
	BookingStore
	EntryStore
	ProcessedStore
	ConfigStore
	UserStore
}
