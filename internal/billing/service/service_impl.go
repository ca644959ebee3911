package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ordinlampo/ordinlampo/internal/billing/domain"
	"github.com/ordinlampo/ordinlampo/internal/clock"
	"github.com/ordinlampo/ordinlampo/internal/config"
	orderdomain "github.com/ordinlampo/ordinlampo/internal/order/domain"
	plandomain "github.com/ordinlampo/ordinlampo/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ServiceParam is the service dependency set.
type ServiceParam struct {
	fx.In

	Cfg    config.Config
	Clock  clock.Clock
	Orders orderdomain.Repository
	Plans  plandomain.Service
	Log    *zap.Logger
}

type service struct {
	anchor   time.Weekday
	location *time.Location
	clock    clock.Clock
	orders   orderdomain.Repository
	plans    plandomain.Service
	log      *zap.Logger
}

// NewService constructs the billing service.
func NewService(p ServiceParam) domain.Service {
	return &service{
		anchor:   p.Cfg.BillingAnchorWeekday,
		location: p.Cfg.BillingLocation(),
		clock:    p.Clock,
		orders:   p.Orders,
		plans:    p.Plans,
		log:      p.Log.Named("billing.service"),
	}
}

func (s *service) CurrentWindow() domain.Window {
	return s.WindowAt(s.clock.Now())
}

// WindowAt anchors the week on the configured weekday at local midnight. The
// day arithmetic goes through the calendar, not hour counts, so DST weeks
// keep their boundaries.
func (s *service) WindowAt(t time.Time) domain.Window {
	local := t.In(s.location)
	daysBack := (int(local.Weekday()) - int(s.anchor) + 7) % 7
	anchorDay := local.AddDate(0, 0, -daysBack)
	start := time.Date(anchorDay.Year(), anchorDay.Month(), anchorDay.Day(), 0, 0, 0, 0, s.location)
	end := start.AddDate(0, 0, 7)
	return domain.Window{Start: start, End: end}
}

func (s *service) WeeklyUsage(ctx context.Context, restaurantID snowflake.ID) (domain.Usage, error) {
	window := s.CurrentWindow()

	plan, err := s.plans.ActiveForRestaurant(ctx, restaurantID)
	if err != nil {
		return domain.Usage{}, err
	}

	count, err := s.orders.CountInWindow(ctx, restaurantID, window.Start, window.End)
	if err != nil {
		return domain.Usage{}, err
	}
	revenue, err := s.orders.SumInWindow(ctx, restaurantID, window.Start, window.End)
	if err != nil {
		return domain.Usage{}, err
	}

	return domain.Usage{
		Window:           window,
		PlanCode:         plan.Code,
		OrderCount:       count,
		PerOrderFeeCents: plan.PerOrderFeeCents,
		AccruedFeeCents:  plan.PerOrderFeeCents.Mul(count),
		RevenueCents:     revenue,
	}, nil
}
