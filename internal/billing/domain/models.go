package domain

import (
	"time"

	"github.com/ordinlampo/ordinlampo/internal/money"
)

// Window is one billing week as the half-open interval [Start, End). An
// order landing exactly on End belongs to the next window, never to both.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports membership in the half-open interval.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Usage is the accrued weekly total for one restaurant: the per-order fee
// from the active plan times the orders received in the window.
type Usage struct {
	Window           Window      `json:"window"`
	PlanCode         string      `json:"plan_code"`
	OrderCount       int64       `json:"order_count"`
	PerOrderFeeCents money.Cents `json:"per_order_fee_cents"`
	AccruedFeeCents  money.Cents `json:"accrued_fee_cents"`
	RevenueCents     money.Cents `json:"revenue_cents"`
}
