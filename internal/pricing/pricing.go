// Package pricing resolves what a product costs at a given instant.
package pricing

import (
	"time"

	"github.com/eliteshop/storefront/internal/common/config"
	"github.com/eliteshop/storefront/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ActiveEvents keeps the events that are switched on and end after now, in
// their stored order
func ActiveEvents(events []model.Event, now time.Time) []model.Event {
	cutoff := now.UnixMilli()
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if e.Active && e.TargetDate > cutoff {
			out = append(out, e)
		}
	}
	return out
}

// MatchEvent returns the first active, unexpired event that lists productID,
// or nil. Later matches are ignored; discounts never stack.
func MatchEvent(productID string, events []model.Event, now time.Time) *model.Event {
	for _, e := range ActiveEvents(events, now) {
		if e.AppliesTo(productID) {
			e := e
			return &e
		}
	}
	return nil
}

// EffectivePrice is the unit price of p after the matching event's discount
func EffectivePrice(p model.Product, events []model.Event, now time.Time) float64 {
	return discounted(p.Price, MatchEvent(p.ID, events, now)).InexactFloat64()
}

func discounted(price float64, e *model.Event) decimal.Decimal {
	base := decimal.NewFromFloat(price)
	if e == nil || e.Discount() == 0 {
		return base
	}
	pct := clampPercent(decimal.NewFromFloat(e.Discount()))
	return base.Mul(decimal.NewFromInt(1).Sub(pct.Div(hundred)))
}

func clampPercent(pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// Limits bounds the amounts a quote accepts
type Limits struct {
	RobuxMin int
	RobuxMax int
	CardMin  int
	CardMax  int
}

func LimitsFrom(cfg config.PricingConfig) Limits {
	cfg.SetDefaults()
	return Limits{
		RobuxMin: cfg.RobuxMinAmount,
		RobuxMax: cfg.RobuxMaxAmount,
		CardMin:  cfg.CardMinQuantity,
		CardMax:  cfg.CardMaxQuantity,
	}
}

// DefaultLimits mirrors the storefront's steppers: 1..10000 robux, 1..10 cards
func DefaultLimits() Limits {
	return LimitsFrom(config.PricingConfig{})
}

// Quote is the server-side price of one checkout line
type Quote struct {
	ProductID   string            `json:"productId"`
	ProductName string            `json:"productName"`
	Type        model.ProductType `json:"type"`
	Amount      model.Amount      `json:"amount"`
	Quantity    int               `json:"quantity"`
	BasePrice   float64           `json:"basePrice"`
	Discount    float64           `json:"discountPercentage"`
	EventID     string            `json:"eventId,omitempty"`
	UnitPrice   float64           `json:"unitPrice"`
	Total       float64           `json:"totalPrice"`
}

// NewQuote prices a purchase of p. For robux, amount is the number of robux
// and the unit price is the discounted price times that amount; quantity is
// always 1. For gift cards amount is ignored and quantity multiplies the flat
// card price. Both are clamped to limits and the total is rounded to whole
// taka.
func NewQuote(p model.Product, events []model.Event, now time.Time, amount, quantity int, limits Limits) Quote {
	q := Quote{
		ProductID:   p.ID,
		ProductName: p.Title,
		Type:        p.Type,
		BasePrice:   p.Price,
	}

	event := MatchEvent(p.ID, events, now)
	if event != nil {
		q.EventID = event.ID
		q.Discount = event.Discount()
	}
	unit := discounted(p.Price, event)

	if p.Type == model.ProductRobux {
		amount = clamp(amount, limits.RobuxMin, limits.RobuxMax)
		q.Amount = model.NumberAmount(float64(amount))
		unit = unit.Mul(decimal.NewFromInt(int64(amount)))
		// a robux order is a single line of amount robux
		quantity = 1
	} else {
		q.Amount = p.Amount
		quantity = clamp(quantity, limits.CardMin, limits.CardMax)
	}

	q.Quantity = quantity
	q.UnitPrice = unit.InexactFloat64()
	q.Total = unit.Mul(decimal.NewFromInt(int64(quantity))).Round(0).InexactFloat64()
	return q
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if hi >= lo && v > hi {
		return hi
	}
	return v
}
