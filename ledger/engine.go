/*
engine.go - Batch orchestration for the accounting rule engine

PURPOSE:
  The Engine is the single entry point callers use to derive ledger entries
  from bookings. It is a synchronous, single-flow batch job:

    1. Resolve an acting identity (explicit > configured system accountant
       > administrator with the smallest ID). Fatal if none exists.
    2. Claim the requested bookings: freshly claimed IDs get a processing
       marker, already-done IDs proceed as explicit re-runs, IDs held by a
       concurrent run are skipped with a per-item error.
    3. Load all rules once. Empty rules is a no-op fast path: mark everything
       processed, return zero counts.
    4. Load the requested bookings once. Missing IDs yield per-item errors.
    5. For each booking, for each rule in store order: match scope, resolve
       amount, allocate periods, write one draft entry per period.
    6. Mark every processed booking ID done, unconditionally, at the end.

IDEMPOTENCY CONTRACT:
  The guarantee is "this booking was submitted at least once", not "each rule
  produced exactly one entry". Re-running an already-done booking is a caller
  decision and duplicates its entries. The claim step only guards the
  unprocessed -> processing transition so two racing triggers cannot both
  credit a fresh booking.

ERROR PROPAGATION:
  Recoverable failures (missing booking, failed insert, busy claim) are
  accumulated in RunResult.Errors and never abort the batch. Only identity
  resolution and store failures while loading rules or bookings are fatal;
  fatal errors release fresh claims before returning.

SEE ALSO:
  - amount.go: Resolution strategies and per-run caching
  - period.go: Attribution of entries to reporting periods
  - writer.go: Draft entry construction
*/
package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// =============================================================================
// ENGINE
// =============================================================================

// Options configures engine behavior that is deployment-specific.
type Options struct {
	// SystemAccountantID designates the identity used when callers do not
	// supply one. When empty, the engine falls back to the administrator
	// with the smallest ID.
	SystemAccountantID string

	// Log receives run summaries. Defaults to the standard logger.
	Log *logrus.Logger
}

type Engine struct {
	stores Stores
	opts   Options
	log    *logrus.Logger
}

func NewEngine(stores Stores, opts Options) *Engine {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{stores: stores, opts: opts, log: log}
}

// RunResult summarizes one batch: counts of created entries plus per-item
// error strings. Callers surface Errors as a partial-success message when the
// counts are still positive.
type RunResult struct {
	ExpensesCreated int
	IncomesCreated  int
	Errors          []string
}

// =============================================================================
// OPERATIONS
// =============================================================================

// RunForBookings derives ledger entries for the given booking IDs.
// accountantID may be empty; see Options.SystemAccountantID.
func (e *Engine) RunForBookings(ctx context.Context, bookingIDs []int64, accountantID string) (RunResult, error) {
	var result RunResult

	accountant, err := e.resolveIdentity(ctx, accountantID)
	if err != nil {
		return result, err
	}

	claim, err := e.stores.Claim(ctx, bookingIDs)
	if err != nil {
		return result, fmt.Errorf("failed to claim bookings: %w", err)
	}
	for _, id := range claim.Busy {
		result.Errors = append(result.Errors, fmt.Sprintf("booking %d: %v", id, ErrBookingBusy))
	}

	toProcess := append(append([]int64{}, claim.Fresh...), claim.Rerun...)
	sort.Slice(toProcess, func(i, j int) bool { return toProcess[i] < toProcess[j] })

	rules, err := e.stores.ListRules(ctx)
	if err != nil {
		e.releaseFresh(ctx, claim.Fresh)
		return result, fmt.Errorf("failed to load rules: %w", err)
	}

	// No rules configured: nothing to derive, but the bookings still count
	// as submitted.
	if len(rules) == 0 {
		if err := e.stores.MarkProcessed(ctx, toProcess); err != nil {
			return result, fmt.Errorf("failed to mark bookings processed: %w", err)
		}
		return result, nil
	}

	bookings, err := e.stores.LoadBookings(ctx, toProcess)
	if err != nil {
		e.releaseFresh(ctx, claim.Fresh)
		return result, fmt.Errorf("failed to load bookings: %w", err)
	}
	byID := make(map[int64]Booking, len(bookings))
	for _, b := range bookings {
		byID[b.ID] = b
	}

	resolver := NewResolver(e.stores)
	writer := NewWriter(e.stores)

	for _, id := range toProcess {
		booking, ok := byID[id]
		if !ok {
			result.Errors = append(result.Errors, (&NotFoundError{BookingID: id}).Error())
			continue
		}
		e.applyRules(ctx, rules, booking, resolver, writer, *accountant, &result)
	}

	// Marking happens once, unconditionally, after the whole batch: the
	// idempotency contract is per-submission, not per-entry.
	if err := e.stores.MarkProcessed(ctx, toProcess); err != nil {
		return result, fmt.Errorf("failed to mark bookings processed: %w", err)
	}

	e.log.WithFields(logrus.Fields{
		"bookings": len(toProcess),
		"expenses": result.ExpensesCreated,
		"incomes":  result.IncomesCreated,
		"errors":   len(result.Errors),
	}).Info("accounting run complete")

	return result, nil
}

// RunForAllUnprocessed runs the engine over every booking that has never been
// submitted. Short-circuits to a no-op success when the unprocessed set is
// empty.
func (e *Engine) RunForAllUnprocessed(ctx context.Context, accountantID string) (RunResult, error) {
	ids, err := e.unprocessedIDs(ctx)
	if err != nil {
		return RunResult{}, err
	}
	if len(ids) == 0 {
		return RunResult{}, nil
	}
	return e.RunForBookings(ctx, ids, accountantID)
}

// UnprocessedCount returns how many bookings have never been submitted.
func (e *Engine) UnprocessedCount(ctx context.Context) (int, error) {
	ids, err := e.unprocessedIDs(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Processed returns the subset of the given IDs already marked done.
func (e *Engine) Processed(ctx context.Context, ids []int64) ([]int64, error) {
	return e.stores.ProcessedIDs(ctx, ids)
}

// =============================================================================
// INTERNALS
// =============================================================================

// applyRules fires every matching rule for one booking, in store order.
func (e *Engine) applyRules(ctx context.Context, rules []Rule, booking Booking, resolver *Resolver, writer *Writer, accountant User, result *RunResult) {
	for _, rule := range rules {
		if !rule.Matches(booking.PropertyID, booking.UnitID) {
			continue
		}

		amount, err := resolver.Resolve(ctx, rule, booking)
		if err != nil {
			result.Errors = append(result.Errors,
				(&WriteError{BookingID: booking.ID, Category: rule.Category, Err: err}).Error())
			continue
		}

		for _, at := range Allocate(rule.Period, booking.Arrival, booking.Departure) {
			if err := writer.Write(ctx, rule, booking, amount, at, accountant); err != nil {
				result.Errors = append(result.Errors, err.Error())
				continue
			}
			if rule.RuleType == RuleIncome {
				result.IncomesCreated++
			} else {
				result.ExpensesCreated++
			}
		}
	}
}

// resolveIdentity picks the accountant recorded on generated entries.
func (e *Engine) resolveIdentity(ctx context.Context, accountantID string) (*User, error) {
	if accountantID == "" {
		accountantID = e.opts.SystemAccountantID
	}
	if accountantID != "" {
		user, err := e.stores.GetUser(ctx, accountantID)
		if err != nil {
			return nil, fmt.Errorf("failed to load accountant %q: %w", accountantID, err)
		}
		if user == nil {
			return nil, fmt.Errorf("accountant %q: %w", accountantID, ErrNoActingIdentity)
		}
		return user, nil
	}

	admin, err := e.stores.FirstAdministrator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to look up an administrator: %w", err)
	}
	if admin == nil {
		return nil, ErrNoActingIdentity
	}
	return admin, nil
}

func (e *Engine) unprocessedIDs(ctx context.Context) ([]int64, error) {
	all, err := e.stores.DistinctBookingIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	marked, err := e.stores.AllMarkedIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processed markers: %w", err)
	}

	seen := make(map[int64]bool, len(marked))
	for _, id := range marked {
		seen[id] = true
	}

	var unprocessed []int64
	for _, id := range all {
		if !seen[id] {
			unprocessed = append(unprocessed, id)
		}
	}
	sort.Slice(unprocessed, func(i, j int) bool { return unprocessed[i] < unprocessed[j] })
	return unprocessed, nil
}

// releaseFresh rolls freshly claimed bookings back to unprocessed after a
// fatal failure. Best effort: a release failure is logged, the fatal error
// still propagates.
func (e *Engine) releaseFresh(ctx context.Context, fresh []int64) {
	if len(fresh) == 0 {
		return
	}
	if err := e.stores.Release(ctx, fresh); err != nil {
		e.log.WithError(err).Warn("failed to release processing claims")
	}
}
