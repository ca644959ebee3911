package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ordinlampo/ordinlampo/internal/clock"
	"github.com/ordinlampo/ordinlampo/internal/config"
	"github.com/ordinlampo/ordinlampo/internal/money"
	orderdomain "github.com/ordinlampo/ordinlampo/internal/order/domain"
	orderrepo "github.com/ordinlampo/ordinlampo/internal/order/repository"
	plandomain "github.com/ordinlampo/ordinlampo/internal/plan/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePlans struct {
	plan *plandomain.Response
}

func (f *fakePlans) List(context.Context) ([]plandomain.Response, error) { return nil, nil }
func (f *fakePlans) GetByCode(context.Context, string) (plandomain.Response, error) {
	if f.plan == nil {
		return plandomain.Response{}, plandomain.ErrPlanNotFound
	}
	return *f.plan, nil
}
func (f *fakePlans) ActiveForRestaurant(context.Context, snowflake.ID) (plandomain.Response, error) {
	if f.plan == nil {
		return plandomain.Response{}, plandomain.ErrPlanNotFound
	}
	return *f.plan, nil
}
func (f *fakePlans) ChangePlan(context.Context, plandomain.ChangePlanRequest) (plandomain.Response, error) {
	return plandomain.Response{}, nil
}

func testConfig() config.Config {
	return config.Config{
		BillingAnchorWeekday: time.Saturday,
		BillingTimezone:      "UTC",
	}
}

func newBillingService(clk clock.Clock, orders orderdomain.Repository, plans plandomain.Service) *service {
	svc := NewService(ServiceParam{
		Cfg:    testConfig(),
		Clock:  clk,
		Orders: orders,
		Plans:  plans,
		Log:    zap.NewNop(),
	})
	return svc.(*service)
}

func TestWindowAnchorsOnSaturday(t *testing.T) {
	clk := clock.NewFakeClock(time.Time{})
	svc := newBillingService(clk, orderrepo.NewMemory(), &fakePlans{})

	// Wednesday falls in the week that started the previous Saturday.
	wednesday := time.Date(2026, time.March, 11, 15, 30, 0, 0, time.UTC)
	w := svc.WindowAt(wednesday)
	assert.Equal(t, time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC), w.End)

	// A Saturday anchors its own week.
	saturday := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	w = svc.WindowAt(saturday)
	assert.Equal(t, saturday, w.Start)
}

func TestWindowBoundariesAreHalfOpen(t *testing.T) {
	clk := clock.NewFakeClock(time.Time{})
	svc := newBillingService(clk, orderrepo.NewMemory(), &fakePlans{})

	start := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	w := svc.WindowAt(start.Add(time.Hour))

	assert.True(t, w.Contains(w.Start))
	assert.False(t, w.Contains(w.End), "the end instant belongs to the next week")
	assert.True(t, w.Contains(w.End.Add(-time.Nanosecond)))

	// The instant at End anchors the following window, so no order can land
	// in two windows.
	next := svc.WindowAt(w.End)
	assert.Equal(t, w.End, next.Start)
}

func TestWeeklyUsageAccruesExactly(t *testing.T) {
	saturday := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	clk := clock.NewFakeClock(saturday.Add(48 * time.Hour))
	orders := orderrepo.NewMemory()
	plans := &fakePlans{plan: &plandomain.Response{Code: "starter", PerOrderFeeCents: 120}}
	svc := newBillingService(clk, orders, plans)

	rid := snowflake.ID(3001)
	ctx := context.Background()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, orders.Insert(ctx, &orderdomain.Order{
			ID:           node.Generate(),
			RestaurantID: rid,
			OrderType:    orderdomain.TypeDelivery,
			TotalCents:   1400,
			CreatedAt:    saturday.Add(time.Duration(i) * time.Hour),
		}))
	}
	// One order in the previous week and one at the exact end boundary; both
	// must stay out of this window.
	require.NoError(t, orders.Insert(ctx, &orderdomain.Order{
		ID:           node.Generate(),
		RestaurantID: rid,
		OrderType:    orderdomain.TypeDelivery,
		TotalCents:   1400,
		CreatedAt:    saturday.Add(-time.Hour),
	}))
	require.NoError(t, orders.Insert(ctx, &orderdomain.Order{
		ID:           node.Generate(),
		RestaurantID: rid,
		OrderType:    orderdomain.TypeDelivery,
		TotalCents:   1400,
		CreatedAt:    saturday.AddDate(0, 0, 7),
	}))

	usage, err := svc.WeeklyUsage(ctx, rid)
	require.NoError(t, err)
	assert.Equal(t, int64(10), usage.OrderCount)
	assert.Equal(t, money.Cents(120), usage.PerOrderFeeCents)
	assert.Equal(t, money.Cents(1200), usage.AccruedFeeCents, "10 orders at 1.20 accrue exactly 12.00")
	assert.Equal(t, money.Cents(14000), usage.RevenueCents)
	assert.Equal(t, "starter", usage.PlanCode)
}

func TestWeeklyUsageWithoutPlan(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC))
	svc := newBillingService(clk, orderrepo.NewMemory(), &fakePlans{})

	_, err := svc.WeeklyUsage(context.Background(), snowflake.ID(3002))
	assert.ErrorIs(t, err, plandomain.ErrPlanNotFound)
}
