/*
amount.go - Amount resolution strategies

PURPOSE:
  Computes the monetary amount for a (rule, booking) pair. The strategy is a
  closed set keyed by Rule.AmountSource, with one resolver func per variant:

    booking_price  The booking's derived charge total (max charge line)
    internet_cost  Configured monthly internet cost for (object, room)
    category       Configured price per unit for the rule's category name
    manual         Rule.Amount when set and >= 0, else the category strategy

  Missing configuration never fails a booking: absence resolves to zero.

CACHING:
  Internet costs and category prices are cached for the duration of one
  engine run. A Resolver is constructed per run and discarded afterwards, so
  the cache never outlives the batch that warmed it.

SEE ALSO:
  - engine.go: Creates one Resolver per run
  - stores.go: ConfigStore lookup contract
*/
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RESOLVER - Per-run amount resolution with config caching
// =============================================================================

type Resolver struct {
	config ConfigStore

	internetCosts  map[internetKey]decimal.Decimal
	categoryPrices map[categoryKey]decimal.Decimal
}

type internetKey struct {
	ObjectID string
	RoomID   string
}

type categoryKey struct {
	Name string
	Type RuleType
}

// NewResolver creates a resolver scoped to a single engine run.
func NewResolver(config ConfigStore) *Resolver {
	return &Resolver{
		config:         config,
		internetCosts:  make(map[internetKey]decimal.Decimal),
		categoryPrices: make(map[categoryKey]decimal.Decimal),
	}
}

// Resolve returns the amount for the rule applied to the booking. The result
// is never negative; unresolvable configuration yields zero, not an error.
func (r *Resolver) Resolve(ctx context.Context, rule Rule, booking Booking) (decimal.Decimal, error) {
	switch rule.AmountSource {
	case SourceBookingPrice:
		return booking.Price(), nil
	case SourceInternetCost:
		return r.internetCost(ctx, booking.PropertyID, booking.UnitID)
	case SourceCategory:
		return r.categoryPrice(ctx, rule.Category, rule.RuleType)
	default: // SourceManual and anything unrecognized
		return r.manual(ctx, rule)
	}
}

// manual uses the rule's fixed amount when present and non-negative, falling
// back to the category price table otherwise.
func (r *Resolver) manual(ctx context.Context, rule Rule) (decimal.Decimal, error) {
	if rule.Amount != nil && !rule.Amount.IsNegative() {
		return *rule.Amount, nil
	}
	return r.categoryPrice(ctx, rule.Category, rule.RuleType)
}

func (r *Resolver) internetCost(ctx context.Context, objectID string, roomID *string) (decimal.Decimal, error) {
	if roomID == nil {
		return decimal.Zero, nil
	}

	key := internetKey{ObjectID: objectID, RoomID: *roomID}
	if cost, ok := r.internetCosts[key]; ok {
		return cost, nil
	}

	cost, found, err := r.config.InternetCost(ctx, objectID, *roomID)
	if err != nil {
		return decimal.Zero, err
	}
	if !found {
		cost = decimal.Zero
	}
	r.internetCosts[key] = cost
	return cost, nil
}

func (r *Resolver) categoryPrice(ctx context.Context, name string, ruleType RuleType) (decimal.Decimal, error) {
	key := categoryKey{Name: name, Type: ruleType}
	if price, ok := r.categoryPrices[key]; ok {
		return price, nil
	}

	price, found, err := r.config.CategoryPrice(ctx, name, ruleType)
	if err != nil {
		return decimal.Zero, err
	}
	if !found {
		price = decimal.Zero
	}
	r.categoryPrices[key] = price
	return price, nil
}
