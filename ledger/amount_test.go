package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodgebooks/autoledger/ledger"
	"github.com/lodgebooks/autoledger/ledger/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string { return &s }

func testBooking(id int64, propertyID string, unitID *string) ledger.Booking {
	return ledger.Booking{
		ID:         id,
		PropertyID: propertyID,
		UnitID:     unitID,
		Arrival:    ledger.NewDate(2024, time.May, 1),
		Departure:  ledger.NewDate(2024, time.May, 8),
	}
}

// countingConfig wraps a ConfigStore and counts lookups, to verify per-run
// caching in the resolver.
type countingConfig struct {
	inner          ledger.ConfigStore
	internetCalls  int
	categoryCalls  int
}

func (c *countingConfig) InternetCost(ctx context.Context, objectID, roomID string) (decimal.Decimal, bool, error) {
	c.internetCalls++
	return c.inner.InternetCost(ctx, objectID, roomID)
}

func (c *countingConfig) CategoryPrice(ctx context.Context, name string, ruleType ledger.RuleType) (decimal.Decimal, bool, error) {
	c.categoryCalls++
	return c.inner.CategoryPrice(ctx, name, ruleType)
}

// =============================================================================
// STRATEGY TESTS
// =============================================================================

func TestResolve_BookingPrice_MaxChargeLine(t *testing.T) {
	// GIVEN: A booking with two charge lines and one payment line
	// WHEN: Resolving a booking_price rule
	// THEN: The largest charge line wins; payments are ignored

	booking := testBooking(1, "obj-1", nil)
	booking.InvoiceItems = []ledger.InvoiceItem{
		{Type: ledger.ItemCharge, LineTotal: dec("420.50")},
		{Type: ledger.ItemCharge, LineTotal: dec("180.00")},
		{Type: ledger.ItemPayment, LineTotal: dec("999.99")},
	}

	resolver := ledger.NewResolver(store.NewMemory())
	amount, err := resolver.Resolve(context.Background(), ledger.Rule{AmountSource: ledger.SourceBookingPrice}, booking)

	require.NoError(t, err)
	assert.True(t, amount.Equal(dec("420.50")), "expected 420.50, got %s", amount)
}

func TestResolve_BookingPrice_NoChargeLines_Zero(t *testing.T) {
	// GIVEN: A booking with no charge-type invoice items
	// WHEN: Resolving a booking_price rule
	// THEN: The amount is zero, not an error

	booking := testBooking(1, "obj-1", nil)
	booking.InvoiceItems = []ledger.InvoiceItem{
		{Type: ledger.ItemPayment, LineTotal: dec("100")},
	}

	resolver := ledger.NewResolver(store.NewMemory())
	amount, err := resolver.Resolve(context.Background(), ledger.Rule{AmountSource: ledger.SourceBookingPrice}, booking)

	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}

func TestResolve_InternetCost_ConfiguredRoom(t *testing.T) {
	mem := store.NewMemory()
	mem.SetInternetCost("obj-1", "room-2", dec("29.90"))

	resolver := ledger.NewResolver(mem)
	booking := testBooking(1, "obj-1", strPtr("room-2"))

	amount, err := resolver.Resolve(context.Background(), ledger.Rule{AmountSource: ledger.SourceInternetCost}, booking)

	require.NoError(t, err)
	assert.True(t, amount.Equal(dec("29.90")))
}

func TestResolve_InternetCost_NoRoom_Zero(t *testing.T) {
	// GIVEN: A booking without a unit assignment
	// WHEN: Resolving an internet_cost rule
	// THEN: Zero, without consulting the configuration at all

	mem := store.NewMemory()
	counting := &countingConfig{inner: mem}
	resolver := ledger.NewResolver(counting)

	amount, err := resolver.Resolve(context.Background(),
		ledger.Rule{AmountSource: ledger.SourceInternetCost}, testBooking(1, "obj-1", nil))

	require.NoError(t, err)
	assert.True(t, amount.IsZero())
	assert.Equal(t, 0, counting.internetCalls)
}

func TestResolve_InternetCost_Unconfigured_Zero(t *testing.T) {
	resolver := ledger.NewResolver(store.NewMemory())
	booking := testBooking(1, "obj-1", strPtr("room-9"))

	amount, err := resolver.Resolve(context.Background(), ledger.Rule{AmountSource: ledger.SourceInternetCost}, booking)

	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}

func TestResolve_Category_ConfiguredPrice(t *testing.T) {
	mem := store.NewMemory()
	mem.SetCategoryPrice("cleaning", ledger.RuleExpense, dec("45"))

	resolver := ledger.NewResolver(mem)
	rule := ledger.Rule{AmountSource: ledger.SourceCategory, Category: "cleaning", RuleType: ledger.RuleExpense}

	amount, err := resolver.Resolve(context.Background(), rule, testBooking(1, "obj-1", nil))

	require.NoError(t, err)
	assert.True(t, amount.Equal(dec("45")))
}

func TestResolve_Manual_UsesRuleAmount(t *testing.T) {
	resolver := ledger.NewResolver(store.NewMemory())
	rule := ledger.Rule{AmountSource: ledger.SourceManual, Amount: decPtr("12.34"), Category: "cleaning"}

	amount, err := resolver.Resolve(context.Background(), rule, testBooking(1, "obj-1", nil))

	require.NoError(t, err)
	assert.True(t, amount.Equal(dec("12.34")))
}

func TestResolve_Manual_NoAmount_FallsBackToCategory(t *testing.T) {
	// GIVEN: A manual rule without an amount and a configured category price
	// WHEN: Resolving
	// THEN: The category price table supplies the amount

	mem := store.NewMemory()
	mem.SetCategoryPrice("laundry", ledger.RuleExpense, dec("18"))

	resolver := ledger.NewResolver(mem)
	rule := ledger.Rule{AmountSource: ledger.SourceManual, Category: "laundry", RuleType: ledger.RuleExpense}

	amount, err := resolver.Resolve(context.Background(), rule, testBooking(1, "obj-1", nil))

	require.NoError(t, err)
	assert.True(t, amount.Equal(dec("18")))
}

func TestResolve_Manual_NoAmountNoCategoryPrice_Zero(t *testing.T) {
	// GIVEN: A manual rule without an amount and no category price configured
	// WHEN: Resolving
	// THEN: Zero, not an error

	resolver := ledger.NewResolver(store.NewMemory())
	rule := ledger.Rule{AmountSource: ledger.SourceManual, Category: "unknown", RuleType: ledger.RuleExpense}

	amount, err := resolver.Resolve(context.Background(), rule, testBooking(1, "obj-1", nil))

	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}

// =============================================================================
// CACHING TESTS
// =============================================================================

func TestResolve_CachesPerRun(t *testing.T) {
	// GIVEN: Repeated lookups for the same room and category in one run
	// WHEN: Resolving several times
	// THEN: The configuration store is consulted once per key

	mem := store.NewMemory()
	mem.SetInternetCost("obj-1", "room-2", dec("29.90"))
	mem.SetCategoryPrice("cleaning", ledger.RuleExpense, dec("45"))
	counting := &countingConfig{inner: mem}

	resolver := ledger.NewResolver(counting)
	ctx := context.Background()
	booking := testBooking(1, "obj-1", strPtr("room-2"))
	internetRule := ledger.Rule{AmountSource: ledger.SourceInternetCost}
	categoryRule := ledger.Rule{AmountSource: ledger.SourceCategory, Category: "cleaning", RuleType: ledger.RuleExpense}

	for i := 0; i < 3; i++ {
		_, err := resolver.Resolve(ctx, internetRule, booking)
		require.NoError(t, err)
		_, err = resolver.Resolve(ctx, categoryRule, booking)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, counting.internetCalls, "internet cost should be cached per (object, room)")
	assert.Equal(t, 1, counting.categoryCalls, "category price should be cached per name")
}

func TestResolve_CachesMissesToo(t *testing.T) {
	// Absent configuration is cached as zero: repeated misses don't re-query.

	counting := &countingConfig{inner: store.NewMemory()}
	resolver := ledger.NewResolver(counting)
	ctx := context.Background()
	booking := testBooking(1, "obj-1", strPtr("room-2"))

	for i := 0; i < 3; i++ {
		_, err := resolver.Resolve(ctx, ledger.Rule{AmountSource: ledger.SourceInternetCost}, booking)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, counting.internetCalls)
}
