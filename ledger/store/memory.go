// Package store provides an in-memory implementation of the ledger store
// interfaces, used for testing and local development.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lodgebooks/autoledger/ledger"
)

// =============================================================================
// MEMORY STORE - Implements every ledger interface behind one mutex
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	rules    []ledger.Rule // kept in insertion order
	bookings map[int64]ledger.Booking
	users    map[string]ledger.User

	expenses []ledger.Entry
	incomes  []ledger.Entry
	markers  map[int64]ledger.ProcessedMarker

	internetCosts  map[internetKey]decimal.Decimal
	categoryPrices map[categoryKey]decimal.Decimal

	// FailInserts forces entry writes to fail with the given error.
	// Test hook for partial-failure scenarios.
	FailInserts error

	now func() time.Time
}

type internetKey struct{ ObjectID, RoomID string }
type categoryKey struct {
	Name string
	Type ledger.RuleType
}

func NewMemory() *Memory {
	return &Memory{
		bookings:       make(map[int64]ledger.Booking),
		users:          make(map[string]ledger.User),
		markers:        make(map[int64]ledger.ProcessedMarker),
		internetCosts:  make(map[internetKey]decimal.Decimal),
		categoryPrices: make(map[categoryKey]decimal.Decimal),
		now:            time.Now,
	}
}

// =============================================================================
// SEEDING (test/dev setup, not part of the engine contract)
// =============================================================================

func (m *Memory) AddRule(r ledger.Rule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, r)
}

func (m *Memory) AddBooking(b ledger.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
}

func (m *Memory) AddUser(u ledger.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

func (m *Memory) SetInternetCost(objectID, roomID string, cost decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.internetCosts[internetKey{ObjectID: objectID, RoomID: roomID}] = cost
}

func (m *Memory) SetCategoryPrice(name string, ruleType ledger.RuleType, price decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categoryPrices[categoryKey{Name: name, Type: ruleType}] = price
}

// Expenses returns a copy of the written expense entries in insertion order.
func (m *Memory) Expenses() []ledger.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ledger.Entry(nil), m.expenses...)
}

// Incomes returns a copy of the written income entries in insertion order.
func (m *Memory) Incomes() []ledger.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ledger.Entry(nil), m.incomes...)
}

// Marker returns the processed marker for a booking, if any.
func (m *Memory) Marker(bookingID int64) (ledger.ProcessedMarker, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	marker, ok := m.markers[bookingID]
	return marker, ok
}

// =============================================================================
// RULE STORE
// =============================================================================

// ListRules returns rules sorted ascending by Order. The sort is stable so
// equal orders keep insertion order.
func (m *Memory) ListRules(_ context.Context) ([]ledger.Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rules := append([]ledger.Rule(nil), m.rules...)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Order < rules[j].Order })
	return rules, nil
}

// =============================================================================
// BOOKING STORE
// =============================================================================

func (m *Memory) LoadBookings(_ context.Context, ids []int64) ([]ledger.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ledger.Booking
	for _, id := range ids {
		if b, ok := m.bookings[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *Memory) DistinctBookingIDs(_ context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.bookings))
	for id := range m.bookings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// =============================================================================
// ENTRY STORE
// =============================================================================

func (m *Memory) InsertExpense(_ context.Context, e ledger.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailInserts != nil {
		return m.FailInserts
	}
	m.expenses = append(m.expenses, e)
	return nil
}

func (m *Memory) InsertIncome(_ context.Context, e ledger.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailInserts != nil {
		return m.FailInserts
	}
	m.incomes = append(m.incomes, e)
	return nil
}

// =============================================================================
// PROCESSED STORE
// =============================================================================

func (m *Memory) Claim(_ context.Context, ids []int64) (ledger.ClaimResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result ledger.ClaimResult
	for _, id := range ids {
		marker, ok := m.markers[id]
		switch {
		case !ok:
			m.markers[id] = ledger.ProcessedMarker{
				BookingID:   id,
				Status:      ledger.MarkerProcessing,
				ProcessedAt: m.now().UTC(),
			}
			result.Fresh = append(result.Fresh, id)
		case marker.Status == ledger.MarkerProcessing:
			result.Busy = append(result.Busy, id)
		default:
			result.Rerun = append(result.Rerun, id)
		}
	}
	return result, nil
}

func (m *Memory) MarkProcessed(_ context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		m.markers[id] = ledger.ProcessedMarker{
			BookingID:   id,
			Status:      ledger.MarkerDone,
			ProcessedAt: m.now().UTC(),
		}
	}
	return nil
}

func (m *Memory) Release(_ context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		if marker, ok := m.markers[id]; ok && marker.Status == ledger.MarkerProcessing {
			delete(m.markers, id)
		}
	}
	return nil
}

func (m *Memory) ProcessedIDs(_ context.Context, ids []int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []int64
	for _, id := range ids {
		if marker, ok := m.markers[id]; ok && marker.Status == ledger.MarkerDone {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *Memory) AllMarkedIDs(_ context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.markers))
	for id := range m.markers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// =============================================================================
// CONFIG STORE
// =============================================================================

func (m *Memory) InternetCost(_ context.Context, objectID, roomID string) (decimal.Decimal, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cost, ok := m.internetCosts[internetKey{ObjectID: objectID, RoomID: roomID}]
	return cost, ok, nil
}

func (m *Memory) CategoryPrice(_ context.Context, name string, ruleType ledger.RuleType) (decimal.Decimal, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	price, ok := m.categoryPrices[categoryKey{Name: name, Type: ruleType}]
	return price, ok, nil
}

// =============================================================================
// USER STORE
// =============================================================================

func (m *Memory) GetUser(_ context.Context, id string) (*ledger.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

// FirstAdministrator returns the administrator with the smallest ID, keeping
// the fallback deterministic when several exist.
func (m *Memory) FirstAdministrator(_ context.Context) (*ledger.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var found *ledger.User
	for id, u := range m.users {
		if !u.Administrator {
			continue
		}
		if found == nil || id < found.ID {
			u := u
			found = &u
		}
	}
	return found, nil
}
