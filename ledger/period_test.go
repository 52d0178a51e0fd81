package ledger_test

import (
	"testing"
	"time"

	"github.com/lodgebooks/autoledger/ledger"
)

// =============================================================================
// PERIOD ALLOCATION TESTS
// =============================================================================

func TestAllocate_PerBooking_SingleAttributionAtArrival(t *testing.T) {
	// GIVEN: A stay from 2024-01-20 to 2024-03-05
	// WHEN: Allocating per_booking
	// THEN: Exactly one attribution at the arrival date, labeled "2024-01"

	arrival := ledger.NewDate(2024, time.January, 20)
	departure := ledger.NewDate(2024, time.March, 5)

	got := ledger.Allocate(ledger.PerBooking, arrival, departure)

	if len(got) != 1 {
		t.Fatalf("expected 1 attribution, got %d", len(got))
	}
	if !got[0].Date.Equal(arrival) {
		t.Errorf("expected attribution date %s, got %s", arrival, got[0].Date)
	}
	if got[0].ReportMonth != "2024-01" {
		t.Errorf("expected report month 2024-01, got %s", got[0].ReportMonth)
	}
}

func TestAllocate_PerMonth_SpansThreeMonths(t *testing.T) {
	// GIVEN: A stay from 2024-01-20 to 2024-03-05
	// WHEN: Allocating per_month
	// THEN: Three attributions dated at the first of each covered month

	arrival := ledger.NewDate(2024, time.January, 20)
	departure := ledger.NewDate(2024, time.March, 5)

	got := ledger.Allocate(ledger.PerMonth, arrival, departure)

	want := []ledger.Attribution{
		{Date: ledger.NewDate(2024, time.January, 1), ReportMonth: "2024-01"},
		{Date: ledger.NewDate(2024, time.February, 1), ReportMonth: "2024-02"},
		{Date: ledger.NewDate(2024, time.March, 1), ReportMonth: "2024-03"},
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d attributions, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Date.Equal(want[i].Date) {
			t.Errorf("attribution %d: expected date %s, got %s", i, want[i].Date, got[i].Date)
		}
		if got[i].ReportMonth != want[i].ReportMonth {
			t.Errorf("attribution %d: expected month %s, got %s", i, want[i].ReportMonth, got[i].ReportMonth)
		}
	}
}

func TestAllocate_PerMonth_SameDayStay_YieldsArrivalMonth(t *testing.T) {
	// GIVEN: A zero-night stay (arrival == departure)
	// WHEN: Allocating per_month
	// THEN: Exactly one attribution for the arrival month

	day := ledger.NewDate(2024, time.June, 15)

	got := ledger.Allocate(ledger.PerMonth, day, day)

	if len(got) != 1 {
		t.Fatalf("expected 1 attribution, got %d", len(got))
	}
	if !got[0].Date.Equal(ledger.NewDate(2024, time.June, 1)) {
		t.Errorf("expected 2024-06-01, got %s", got[0].Date)
	}
	if got[0].ReportMonth != "2024-06" {
		t.Errorf("expected report month 2024-06, got %s", got[0].ReportMonth)
	}
}

func TestAllocate_PerMonth_YearBoundary(t *testing.T) {
	// GIVEN: A stay crossing a year boundary (2024-12-28 to 2025-01-03)
	// WHEN: Allocating per_month
	// THEN: December and January are both covered with correct labels

	arrival := ledger.NewDate(2024, time.December, 28)
	departure := ledger.NewDate(2025, time.January, 3)

	got := ledger.Allocate(ledger.PerMonth, arrival, departure)

	if len(got) != 2 {
		t.Fatalf("expected 2 attributions, got %d", len(got))
	}
	if got[0].ReportMonth != "2024-12" || got[1].ReportMonth != "2025-01" {
		t.Errorf("expected months 2024-12, 2025-01; got %s, %s", got[0].ReportMonth, got[1].ReportMonth)
	}
}

func TestAllocate_PerMonth_SameMonthMultiNight(t *testing.T) {
	// GIVEN: A stay entirely within one month
	// WHEN: Allocating per_month
	// THEN: One attribution dated the first of that month, not the arrival day

	arrival := ledger.NewDate(2024, time.April, 10)
	departure := ledger.NewDate(2024, time.April, 17)

	got := ledger.Allocate(ledger.PerMonth, arrival, departure)

	if len(got) != 1 {
		t.Fatalf("expected 1 attribution, got %d", len(got))
	}
	if !got[0].Date.Equal(ledger.NewDate(2024, time.April, 1)) {
		t.Errorf("expected 2024-04-01, got %s", got[0].Date)
	}
}
