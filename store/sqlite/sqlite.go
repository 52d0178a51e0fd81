/*
Package sqlite provides a SQLite-backed implementation of the ledger store
interfaces.

PURPOSE:
  Implements every persistence interface the engine depends on (RuleStore,
  BookingStore, EntryStore, ProcessedStore, ConfigStore, UserStore) using
  SQLite. In production the same patterns apply to PostgreSQL - only minor
  SQL dialect differences.

KEY TABLES:
  rules               Ordered accounting rules (read-only to the engine)
  bookings            External booking universe (read-only to the engine)
  invoice_items       Charge/payment lines per booking
  expenses, incomes   Derived ledger entries (insert-only)
  processed_bookings  Idempotency markers with claim status
  category_prices     Price-per-unit configuration by category name and type
  internet_costs      Monthly internet cost per (object, room)
  users               Acting identities

CLAIM STEP:
  processed_bookings.status is either 'processing' or 'done'. Claim() runs
  inside a database transaction so two racing runs cannot both claim a fresh
  booking: the first insert wins, the loser sees the row and reports busy.

RULE ORDERING:
  Rules evaluate ascending by eval_order; ties fall back to rowid, which
  reflects insertion order.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency.

USAGE:
  store, err := sqlite.New("./data/autoledger.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := ledger.NewEngine(store, ledger.Options{})

SEE ALSO:
  - ledger/stores.go: Interface definitions
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/lodgebooks/autoledger/ledger"
)

// Store implements every ledger store interface using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Accounting rules (CRUD happens outside the engine)
	CREATE TABLE IF NOT EXISTS rules (
		id TEXT PRIMARY KEY,
		rule_type TEXT NOT NULL,
		object_id TEXT NOT NULL,
		room_id TEXT,
		category TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		amount_source TEXT NOT NULL DEFAULT 'manual',
		amount TEXT,
		period TEXT NOT NULL,
		eval_order INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rules_order ON rules(eval_order);

	-- Bookings (owned by the channel manager, read-only here)
	CREATE TABLE IF NOT EXISTS bookings (
		id INTEGER PRIMARY KEY,
		property_id TEXT NOT NULL,
		unit_id TEXT,
		arrival TEXT NOT NULL,
		departure TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS invoice_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		booking_id INTEGER NOT NULL REFERENCES bookings(id),
		item_type TEXT NOT NULL,
		line_total TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_invoice_items_booking ON invoice_items(booking_id);

	-- Derived ledger entries (insert-only from the engine)
	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		object_id TEXT NOT NULL,
		room_id TEXT,
		booking_id INTEGER,
		category TEXT NOT NULL,
		amount TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		entry_date TEXT NOT NULL,
		report_month TEXT NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'draft',
		attachments_json TEXT NOT NULL DEFAULT '[]',
		accountant_id TEXT NOT NULL,
		accountant_name TEXT NOT NULL,
		auto_created_rule TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS incomes (
		id TEXT PRIMARY KEY,
		object_id TEXT NOT NULL,
		room_id TEXT,
		booking_id INTEGER,
		category TEXT NOT NULL,
		amount TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		entry_date TEXT NOT NULL,
		report_month TEXT NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'draft',
		attachments_json TEXT NOT NULL DEFAULT '[]',
		accountant_id TEXT NOT NULL,
		accountant_name TEXT NOT NULL,
		auto_created_rule TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_expenses_report_month ON expenses(report_month);
	CREATE INDEX IF NOT EXISTS idx_expenses_booking ON expenses(booking_id) WHERE booking_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_incomes_report_month ON incomes(report_month);
	CREATE INDEX IF NOT EXISTS idx_incomes_booking ON incomes(booking_id) WHERE booking_id IS NOT NULL;

	-- Idempotency markers. status transitions: (absent) -> processing -> done
	CREATE TABLE IF NOT EXISTS processed_bookings (
		booking_id INTEGER PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'done',
		processed_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_processed_status ON processed_bookings(status);

	-- Price configuration
	CREATE TABLE IF NOT EXISTS category_prices (
		name TEXT NOT NULL,
		rule_type TEXT NOT NULL,
		price TEXT NOT NULL,
		PRIMARY KEY (name, rule_type)
	);

	CREATE TABLE IF NOT EXISTS internet_costs (
		object_id TEXT NOT NULL,
		room_id TEXT NOT NULL,
		monthly_cost TEXT NOT NULL,
		PRIMARY KEY (object_id, room_id)
	);

	-- Users (acting identities)
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		administrator BOOLEAN NOT NULL DEFAULT FALSE
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RULE STORE (ledger.RuleStore interface)
// =============================================================================

// ListRules returns every rule ascending by eval_order, ties by insertion.
func (s *Store) ListRules(ctx context.Context) ([]ledger.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, rule_type, object_id, room_id, category, quantity,
		       amount_source, amount, period, eval_order
		FROM rules
		ORDER BY eval_order ASC, rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var rules []ledger.Rule
	for rows.Next() {
		var (
			r      ledger.Rule
			roomID sql.NullString
			amount sql.NullString
		)
		err := rows.Scan(&r.ID, &r.RuleType, &r.ObjectID, &roomID, &r.Category,
			&r.Quantity, &r.AmountSource, &amount, &r.Period, &r.Order)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		if roomID.Valid {
			r.RoomID = &roomID.String
		}
		if amount.Valid {
			d, err := decimal.NewFromString(amount.String)
			if err != nil {
				return nil, fmt.Errorf("rule %s: invalid amount %q: %w", r.ID, amount.String, err)
			}
			r.Amount = &d
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// InsertRule stores a rule. Rule CRUD belongs to the back office, not the
// engine; this exists for seeding and tests.
func (s *Store) InsertRule(ctx context.Context, r ledger.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var amount *string
	if r.Amount != nil {
		v := r.Amount.String()
		amount = &v
	}
	quantity := r.Quantity
	if quantity < 1 {
		quantity = 1
	}
	source := r.AmountSource
	if source == "" {
		source = ledger.SourceManual
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rules (id, rule_type, object_id, room_id, category, quantity,
		                   amount_source, amount, period, eval_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.RuleType, r.ObjectID, r.RoomID, r.Category, quantity, source, amount, r.Period, r.Order)
	if err != nil {
		return fmt.Errorf("failed to insert rule: %w", err)
	}
	return nil
}

// =============================================================================
// BOOKING STORE (ledger.BookingStore interface)
// =============================================================================

// LoadBookings returns the bookings for the given IDs with their invoice
// items. Missing IDs are absent from the result.
func (s *Store) LoadBookings(ctx context.Context, ids []int64) ([]ledger.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT id, property_id, unit_id, arrival, departure
		FROM bookings
		WHERE id IN (%s)
		ORDER BY id ASC
	`, placeholders(len(ids)))

	rows, err := s.db.QueryContext(ctx, query, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []ledger.Booking
	for rows.Next() {
		var (
			b                  ledger.Booking
			unitID             sql.NullString
			arrival, departure string
		)
		if err := rows.Scan(&b.ID, &b.PropertyID, &unitID, &arrival, &departure); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		if unitID.Valid {
			b.UnitID = &unitID.String
		}
		if b.Arrival, err = ledger.ParseDate(arrival); err != nil {
			return nil, fmt.Errorf("booking %d: %w", b.ID, err)
		}
		if b.Departure, err = ledger.ParseDate(departure); err != nil {
			return nil, fmt.Errorf("booking %d: %w", b.ID, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range bookings {
		items, err := s.loadInvoiceItems(ctx, bookings[i].ID)
		if err != nil {
			return nil, err
		}
		bookings[i].InvoiceItems = items
	}
	return bookings, nil
}

func (s *Store) loadInvoiceItems(ctx context.Context, bookingID int64) ([]ledger.InvoiceItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_type, line_total FROM invoice_items WHERE booking_id = ? ORDER BY id ASC
	`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer rows.Close()

	var items []ledger.InvoiceItem
	for rows.Next() {
		var (
			item  ledger.InvoiceItem
			total string
		)
		if err := rows.Scan(&item.Type, &total); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		if item.LineTotal, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("booking %d: invalid line total %q: %w", bookingID, total, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DistinctBookingIDs returns every booking identifier, ascending.
func (s *Store) DistinctBookingIDs(ctx context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT id FROM bookings ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query booking ids: %w", err)
	}
	defer rows.Close()

	return scanInt64s(rows)
}

// InsertBooking stores a booking with its invoice items (seeding/tests; the
// engine never writes bookings).
func (s *Store) InsertBooking(ctx context.Context, b ledger.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (id, property_id, unit_id, arrival, departure)
		VALUES (?, ?, ?, ?, ?)
	`, b.ID, b.PropertyID, b.UnitID, b.Arrival.String(), b.Departure.String())
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	for _, item := range b.InvoiceItems {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO invoice_items (booking_id, item_type, line_total) VALUES (?, ?, ?)
		`, b.ID, item.Type, item.LineTotal.String())
		if err != nil {
			return fmt.Errorf("failed to insert invoice item: %w", err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// ENTRY STORE (ledger.EntryStore interface)
// =============================================================================

func (s *Store) InsertExpense(ctx context.Context, e ledger.Entry) error {
	return s.insertEntry(ctx, "expenses", e)
}

func (s *Store) InsertIncome(ctx context.Context, e ledger.Entry) error {
	return s.insertEntry(ctx, "incomes", e)
}

func (s *Store) insertEntry(ctx context.Context, table string, e ledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	attachments := e.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	attachmentsJSON, _ := json.Marshal(attachments)

	query := fmt.Sprintf(`
		INSERT INTO %s
		(id, object_id, room_id, booking_id, category, amount, quantity,
		 entry_date, report_month, comment, status, attachments_json,
		 accountant_id, accountant_name, auto_created_rule, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, table)

	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.ObjectID,
		e.RoomID,
		e.BookingID,
		e.Category,
		e.Amount.String(),
		e.Quantity,
		e.Date.String(),
		e.ReportMonth,
		e.Comment,
		e.Status,
		string(attachmentsJSON),
		e.AccountantID,
		e.AccountantName,
		e.AutoCreated,
		e.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s entry: %w", strings.TrimSuffix(table, "s"), err)
	}
	return nil
}

// ListEntries returns the entries of one type for a report month, in
// creation order. Used by the API listing endpoints.
func (s *Store) ListEntries(ctx context.Context, ruleType ledger.RuleType, reportMonth string) ([]ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table := "expenses"
	if ruleType == ledger.RuleIncome {
		table = "incomes"
	}

	query := fmt.Sprintf(`
		SELECT id, object_id, room_id, booking_id, category, amount, quantity,
		       entry_date, report_month, comment, status, attachments_json,
		       accountant_id, accountant_name, auto_created_rule, created_at
		FROM %s
		WHERE report_month = ?
		ORDER BY created_at ASC, rowid ASC
	`, table)

	rows, err := s.db.QueryContext(ctx, query, reportMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		e, err := scanEntry(rows, ruleType)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows, ruleType ledger.RuleType) (ledger.Entry, error) {
	var (
		e               ledger.Entry
		roomID          sql.NullString
		bookingID       sql.NullInt64
		amount          string
		entryDate       string
		attachmentsJSON string
		autoCreated     sql.NullString
		createdAt       string
	)

	err := rows.Scan(&e.ID, &e.ObjectID, &roomID, &bookingID, &e.Category, &amount,
		&e.Quantity, &entryDate, &e.ReportMonth, &e.Comment, &e.Status,
		&attachmentsJSON, &e.AccountantID, &e.AccountantName, &autoCreated, &createdAt)
	if err != nil {
		return e, fmt.Errorf("failed to scan entry: %w", err)
	}

	e.Type = ruleType
	if roomID.Valid {
		e.RoomID = &roomID.String
	}
	if bookingID.Valid {
		e.BookingID = &bookingID.Int64
	}
	if autoCreated.Valid {
		e.AutoCreated = &autoCreated.String
	}
	if e.Amount, err = decimal.NewFromString(amount); err != nil {
		return e, fmt.Errorf("entry %s: invalid amount %q: %w", e.ID, amount, err)
	}
	if e.Date, err = ledger.ParseDate(entryDate); err != nil {
		return e, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	json.Unmarshal([]byte(attachmentsJSON), &e.Attachments)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}

// =============================================================================
// PROCESSED STORE (ledger.ProcessedStore interface)
// =============================================================================

// Claim partitions ids by marker state inside one database transaction, so a
// concurrent run cannot claim the same fresh booking.
func (s *Store) Claim(ctx context.Context, ids []int64) (ledger.ClaimResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result ledger.ClaimResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, id := range ids {
		var status string
		err := tx.QueryRowContext(ctx,
			`SELECT status FROM processed_bookings WHERE booking_id = ?`, id,
		).Scan(&status)

		switch {
		case err == sql.ErrNoRows:
			_, err = tx.ExecContext(ctx, `
				INSERT INTO processed_bookings (booking_id, status, processed_at)
				VALUES (?, ?, ?)
			`, id, ledger.MarkerProcessing, now)
			if err != nil {
				return ledger.ClaimResult{}, fmt.Errorf("failed to claim booking %d: %w", id, err)
			}
			result.Fresh = append(result.Fresh, id)
		case err != nil:
			return ledger.ClaimResult{}, fmt.Errorf("failed to check marker for booking %d: %w", id, err)
		case status == string(ledger.MarkerProcessing):
			result.Busy = append(result.Busy, id)
		default:
			result.Rerun = append(result.Rerun, id)
		}
	}

	if err := tx.Commit(); err != nil {
		return ledger.ClaimResult{}, fmt.Errorf("failed to commit claim: %w", err)
	}
	return result, nil
}

// MarkProcessed upserts a done marker with the current timestamp.
func (s *Store) MarkProcessed(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, id := range ids {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO processed_bookings (booking_id, status, processed_at)
			VALUES (?, ?, ?)
			ON CONFLICT(booking_id) DO UPDATE SET status = excluded.status, processed_at = excluded.processed_at
		`, id, ledger.MarkerDone, now)
		if err != nil {
			return fmt.Errorf("failed to mark booking %d processed: %w", id, err)
		}
	}

	return tx.Commit()
}

// Release deletes processing markers (fatal-failure rollback only).
func (s *Store) Release(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
		DELETE FROM processed_bookings
		WHERE status = ? AND booking_id IN (%s)
	`, placeholders(len(ids)))

	args := append([]any{ledger.MarkerProcessing}, int64Args(ids)...)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to release claims: %w", err)
	}
	return nil
}

// ProcessedIDs returns the subset of ids holding a done marker, ascending.
func (s *Store) ProcessedIDs(ctx context.Context, ids []int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT booking_id FROM processed_bookings
		WHERE status = ? AND booking_id IN (%s)
		ORDER BY booking_id ASC
	`, placeholders(len(ids)))

	args := append([]any{ledger.MarkerDone}, int64Args(ids)...)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query processed markers: %w", err)
	}
	defer rows.Close()

	return scanInt64s(rows)
}

// AllMarkedIDs returns every booking ID with any marker, ascending.
func (s *Store) AllMarkedIDs(ctx context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT booking_id FROM processed_bookings ORDER BY booking_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query markers: %w", err)
	}
	defer rows.Close()

	return scanInt64s(rows)
}

// =============================================================================
// CONFIG STORE (ledger.ConfigStore interface)
// =============================================================================

func (s *Store) InternetCost(ctx context.Context, objectID, roomID string) (decimal.Decimal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cost string
	err := s.db.QueryRowContext(ctx, `
		SELECT monthly_cost FROM internet_costs WHERE object_id = ? AND room_id = ?
	`, objectID, roomID).Scan(&cost)
	if err == sql.ErrNoRows {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to query internet cost: %w", err)
	}

	d, err := decimal.NewFromString(cost)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("invalid internet cost %q for %s/%s: %w", cost, objectID, roomID, err)
	}
	return d, true, nil
}

func (s *Store) CategoryPrice(ctx context.Context, name string, ruleType ledger.RuleType) (decimal.Decimal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var price string
	err := s.db.QueryRowContext(ctx, `
		SELECT price FROM category_prices WHERE name = ? AND rule_type = ?
	`, name, ruleType).Scan(&price)
	if err == sql.ErrNoRows {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to query category price: %w", err)
	}

	d, err := decimal.NewFromString(price)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("invalid category price %q for %s: %w", price, name, err)
	}
	return d, true, nil
}

// SetInternetCost upserts the monthly internet cost for a room (seeding).
func (s *Store) SetInternetCost(ctx context.Context, objectID, roomID string, cost decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO internet_costs (object_id, room_id, monthly_cost) VALUES (?, ?, ?)
		ON CONFLICT(object_id, room_id) DO UPDATE SET monthly_cost = excluded.monthly_cost
	`, objectID, roomID, cost.String())
	return err
}

// SetCategoryPrice upserts the price per unit for a category (seeding).
func (s *Store) SetCategoryPrice(ctx context.Context, name string, ruleType ledger.RuleType, price decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO category_prices (name, rule_type, price) VALUES (?, ?, ?)
		ON CONFLICT(name, rule_type) DO UPDATE SET price = excluded.price
	`, name, ruleType, price.String())
	return err
}

// =============================================================================
// USER STORE (ledger.UserStore interface)
// =============================================================================

func (s *Store) GetUser(ctx context.Context, id string) (*ledger.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u ledger.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, administrator FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Name, &u.Administrator)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

// FirstAdministrator returns the administrator with the smallest ID.
func (s *Store) FirstAdministrator(ctx context.Context) (*ledger.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u ledger.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, administrator FROM users
		WHERE administrator
		ORDER BY id ASC
		LIMIT 1
	`).Scan(&u.ID, &u.Name, &u.Administrator)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query administrators: %w", err)
	}
	return &u, nil
}

// InsertUser stores a user (seeding/tests).
func (s *Store) InsertUser(ctx context.Context, u ledger.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, administrator) VALUES (?, ?, ?)
	`, u.ID, u.Name, u.Administrator)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func scanInt64s(rows *sql.Rows) ([]int64, error) {
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
