package ledger_test

import (
	"testing"

	"github.com/lodgebooks/autoledger/ledger"
)

// =============================================================================
// SCOPE MATCHING TESTS
// =============================================================================

func TestRuleMatches_ScopeSemantics(t *testing.T) {
	room2 := "room-2"
	room9 := "room-9"

	tests := []struct {
		name     string
		rule     ledger.Rule
		objectID string
		roomID   *string
		want     bool
	}{
		{
			name:     "wildcard object matches any booking",
			rule:     ledger.Rule{ObjectID: ledger.ScopeAll},
			objectID: "obj-7",
			want:     true,
		},
		{
			name:     "specific object matches same object",
			rule:     ledger.Rule{ObjectID: "obj-1"},
			objectID: "obj-1",
			want:     true,
		},
		{
			name:     "specific object rejects other object",
			rule:     ledger.Rule{ObjectID: "obj-1"},
			objectID: "obj-2",
			want:     false,
		},
		{
			name:     "unset room filter matches booking with room",
			rule:     ledger.Rule{ObjectID: ledger.ScopeAll},
			objectID: "obj-1",
			roomID:   &room2,
			want:     true,
		},
		{
			name:     "unset room filter matches booking without room",
			rule:     ledger.Rule{ObjectID: ledger.ScopeAll},
			objectID: "obj-1",
			want:     true,
		},
		{
			name:     "wildcard room matches booking with room",
			rule:     ledger.Rule{ObjectID: "obj-1", RoomID: strPtr(ledger.ScopeAll)},
			objectID: "obj-1",
			roomID:   &room2,
			want:     true,
		},
		{
			name:     "wildcard room matches booking without room",
			rule:     ledger.Rule{ObjectID: "obj-1", RoomID: strPtr(ledger.ScopeAll)},
			objectID: "obj-1",
			want:     true,
		},
		{
			name:     "specific room matches same room",
			rule:     ledger.Rule{ObjectID: "obj-1", RoomID: &room2},
			objectID: "obj-1",
			roomID:   &room2,
			want:     true,
		},
		{
			name:     "specific room rejects different room",
			rule:     ledger.Rule{ObjectID: "obj-1", RoomID: &room2},
			objectID: "obj-1",
			roomID:   &room9,
			want:     false,
		},
		{
			name:     "specific room rejects booking without room",
			rule:     ledger.Rule{ObjectID: "obj-1", RoomID: &room2},
			objectID: "obj-1",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Matches(tt.objectID, tt.roomID); got != tt.want {
				t.Errorf("Matches(%q, %v) = %v, want %v", tt.objectID, tt.roomID, got, tt.want)
			}
		})
	}
}

// =============================================================================
// BOOKING PRICE TESTS
// =============================================================================

func TestBookingPrice_EmptyItems_Zero(t *testing.T) {
	b := ledger.Booking{}
	if !b.Price().IsZero() {
		t.Errorf("expected zero price for booking without invoice items, got %s", b.Price())
	}
}

func TestBookingPrice_IgnoresPayments(t *testing.T) {
	b := ledger.Booking{InvoiceItems: []ledger.InvoiceItem{
		{Type: ledger.ItemPayment, LineTotal: dec("500")},
		{Type: ledger.ItemCharge, LineTotal: dec("350")},
	}}
	if !b.Price().Equal(dec("350")) {
		t.Errorf("expected 350, got %s", b.Price())
	}
}
