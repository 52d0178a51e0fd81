package ledger

// =============================================================================
// PERIOD ALLOCATION - Spreading a rule's amount across reporting periods
// =============================================================================

// Attribution is a single (date, reporting period) pair produced by the
// allocator. One ledger entry is written per attribution.
type Attribution struct {
	Date        Date
	ReportMonth string // "YYYY-MM"
}

// Allocate maps a booking's stay interval onto attributions for the given
// periodicity.
//
//   - PerBooking: one attribution at the arrival date, labeled with the
//     arrival month.
//   - PerMonth: one attribution per calendar month intersecting
//     [arrival, departure], stepping from the first day of arrival's month
//     to the first day of departure's month inclusive. A zero-night stay
//     still yields the arrival month.
//
// The full resolved amount is attributed to each covered month; partial
// months at the edges are not pro-rated.
func Allocate(period PeriodKind, arrival, departure Date) []Attribution {
	if period != PerMonth {
		return []Attribution{{Date: arrival, ReportMonth: arrival.ReportMonth()}}
	}

	var out []Attribution
	last := departure.StartOfMonth()
	for current := arrival.StartOfMonth(); current.BeforeOrEqual(last); current = current.AddMonths(1) {
		out = append(out, Attribution{Date: current, ReportMonth: current.ReportMonth()})
	}
	return out
}
