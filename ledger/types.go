/*
Package ledger implements the automated accounting rule engine.

PURPOSE:
  Given a set of user-defined accounting rules and a batch of bookings, the
  engine deterministically derives ledger entries (expenses and incomes),
  allocates them across reporting periods when a stay spans multiple months,
  resolves the monetary amount through one of several strategies, and tracks
  which bookings have already been submitted so re-runs are a deliberate
  caller decision rather than an accident.

KEY CONCEPTS IN THIS FILE (types.go):
  - Rule: A configured policy that, when its object/room scope matches a
    booking, produces one or more ledger entries
  - Booking: A read-only reservation record owned by the channel manager
  - Entry: A derived expense or income attributed to a reporting period
  - ProcessedMarker: The idempotency record for a booking

DESIGN PRINCIPLES:
  1. Determinism: Rules evaluate in explicit order; allocation is pure date math
  2. Precision: Uses decimal.Decimal for all monetary amounts
  3. Isolation: Per-booking and per-write failures never abort the batch
  4. Auditability: Every generated entry carries its originating rule ID

SEE ALSO:
  - engine.go: Batch orchestration
  - amount.go: Amount resolution strategies
  - period.go: Reporting-period allocation
  - stores.go: Persistence interfaces
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RULE - User-configured policy that derives ledger entries from bookings
// =============================================================================

type RuleType string

const (
	RuleExpense RuleType = "expense"
	RuleIncome  RuleType = "income"
)

// AmountSource selects the strategy used to resolve a rule's monetary amount.
// Closed set: each constant has exactly one resolver func in amount.go.
type AmountSource string

const (
	SourceManual       AmountSource = "manual"
	SourceBookingPrice AmountSource = "booking_price"
	SourceInternetCost AmountSource = "internet_cost"
	SourceCategory     AmountSource = "category"
)

// PeriodKind selects how a rule's amount is spread across reporting periods.
type PeriodKind string

const (
	PerBooking PeriodKind = "per_booking"
	PerMonth   PeriodKind = "per_month"
)

// ScopeAll is the wildcard scope value: match any object (or any room).
// Distinct from an unset RoomID, which means "no room filter at all".
const ScopeAll = "all"

// Rule is a configured accounting policy.
//
// INVARIANTS:
//   - Category is non-empty
//   - RuleType is fixed at creation
//   - Quantity >= 1
//   - Order defines a total evaluation order (ties broken by insertion order,
//     values need not be contiguous)
type Rule struct {
	ID       string
	RuleType RuleType

	// Scope. ObjectID is a property identifier or ScopeAll.
	// RoomID is a unit identifier, ScopeAll, or nil for "any room, no filter".
	ObjectID string
	RoomID   *string

	Category string
	Quantity int

	// Amount resolution. Amount is only consulted for SourceManual; when nil
	// the resolver falls back to the category price table.
	AmountSource AmountSource
	Amount       *decimal.Decimal

	Period PeriodKind
	Order  int
}

// HasRoomFilter reports whether the rule constrains the room scope at all.
func (r Rule) HasRoomFilter() bool { return r.RoomID != nil }

// Matches reports whether the rule applies to the given object/room scope.
// roomID is nil when the booking has no unit assigned.
//
// Every matching rule fires; there is no first-match-wins short circuit.
func (r Rule) Matches(objectID string, roomID *string) bool {
	if r.ObjectID != ScopeAll && r.ObjectID != objectID {
		return false
	}
	if r.RoomID == nil || *r.RoomID == ScopeAll {
		return true
	}
	return roomID != nil && *r.RoomID == *roomID
}

// =============================================================================
// BOOKING - Read-only reservation record from the channel manager
// =============================================================================

type InvoiceItemType string

const (
	ItemCharge  InvoiceItemType = "charge"
	ItemPayment InvoiceItemType = "payment"
)

type InvoiceItem struct {
	Type      InvoiceItemType
	LineTotal decimal.Decimal
}

// Booking is owned by an external collaborator; the engine never writes it.
type Booking struct {
	ID         int64
	PropertyID string
	UnitID     *string // nil when the booking has no unit assigned

	Arrival   Date // arrival <= departure
	Departure Date

	InvoiceItems []InvoiceItem
}

// Price returns the booking's derived charge total: the maximum LineTotal
// among charge-type invoice items, zero when none exist.
func (b Booking) Price() decimal.Decimal {
	price := decimal.Zero
	for _, item := range b.InvoiceItems {
		if item.Type == ItemCharge && item.LineTotal.GreaterThan(price) {
			price = item.LineTotal
		}
	}
	return price
}

// =============================================================================
// ENTRY - Derived expense or income
// =============================================================================

type EntryStatus string

const (
	StatusDraft     EntryStatus = "draft"
	StatusConfirmed EntryStatus = "confirmed"
)

// Entry is a single expense or income row. Rule-generated entries are always
// created as drafts and never mutated by the engine; deletion is an external,
// manual operation.
type Entry struct {
	ID        string
	Type      RuleType
	ObjectID  string
	RoomID    *string
	BookingID *int64 // nil for manually entered rows

	Category string
	Amount   decimal.Decimal
	Quantity int

	// Date is the day the entry is attributed to; ReportMonth is its
	// "YYYY-MM" grouping label.
	Date        Date
	ReportMonth string

	Comment     string
	Status      EntryStatus
	Attachments []string

	AccountantID   string
	AccountantName string
	CreatedAt      time.Time

	// AutoCreated carries the originating rule ID, nil for manual entries.
	AutoCreated *string
}

// =============================================================================
// PROCESSED MARKER - Idempotency record, one row per booking ever submitted
// =============================================================================

type MarkerStatus string

const (
	// MarkerProcessing is held while a run has claimed the booking but has
	// not finished the batch.
	MarkerProcessing MarkerStatus = "processing"
	MarkerDone       MarkerStatus = "done"
)

type ProcessedMarker struct {
	BookingID   int64
	Status      MarkerStatus
	ProcessedAt time.Time
}

// =============================================================================
// USER - Acting identity for generated entries
// =============================================================================

type User struct {
	ID            string
	Name          string
	Administrator bool
}
