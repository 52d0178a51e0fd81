package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// WRITER - Builds and persists one draft entry per attribution
// =============================================================================

// Writer turns resolved (rule, booking, attribution) triples into ledger rows.
// Every generated entry is a draft with an empty comment, no attachments, and
// AutoCreated set to the originating rule ID. Writes are independent inserts:
// a failed insert is recorded and the remaining writes continue.
type Writer struct {
	entries EntryStore
	now     func() time.Time
}

func NewWriter(entries EntryStore) *Writer {
	return &Writer{entries: entries, now: time.Now}
}

// Write inserts a single entry into the expense or income collection selected
// by the rule's type.
func (w *Writer) Write(ctx context.Context, rule Rule, booking Booking, amount decimal.Decimal, at Attribution, accountant User) error {
	ruleID := rule.ID
	bookingID := booking.ID

	entry := Entry{
		ID:             uuid.NewString(),
		Type:           rule.RuleType,
		ObjectID:       booking.PropertyID,
		RoomID:         booking.UnitID,
		BookingID:      &bookingID,
		Category:       rule.Category,
		Amount:         amount,
		Quantity:       rule.Quantity,
		Date:           at.Date,
		ReportMonth:    at.ReportMonth,
		Status:         StatusDraft,
		AccountantID:   accountant.ID,
		AccountantName: accountant.Name,
		CreatedAt:      w.now().UTC(),
		AutoCreated:    &ruleID,
	}
	if entry.Quantity < 1 {
		entry.Quantity = 1
	}

	var err error
	if rule.RuleType == RuleIncome {
		err = w.entries.InsertIncome(ctx, entry)
	} else {
		err = w.entries.InsertExpense(ctx, entry)
	}
	if err != nil {
		return &WriteError{BookingID: booking.ID, Category: rule.Category, Err: err}
	}
	return nil
}
