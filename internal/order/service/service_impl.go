package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ordinlampo/ordinlampo/internal/clock"
	"github.com/ordinlampo/ordinlampo/internal/observability/logger"
	"github.com/ordinlampo/ordinlampo/internal/observability/metrics"
	"github.com/ordinlampo/ordinlampo/internal/order/domain"
	"github.com/ordinlampo/ordinlampo/internal/order/feed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ServiceParam is the service dependency set.
type ServiceParam struct {
	fx.In

	Repo      domain.Repository
	Hub       *feed.Hub
	Dedup     feed.Deduper
	Listeners *feed.Registry
	Node      *snowflake.Node
	Clock     clock.Clock
	Log       *zap.Logger
	Metrics   *metrics.Metrics `optional:"true"`
}

type service struct {
	repo      domain.Repository
	hub       *feed.Hub
	dedup     feed.Deduper
	listeners *feed.Registry
	node      *snowflake.Node
	clock     clock.Clock
	log       *zap.Logger
	metrics   *metrics.Metrics
}

// NewService constructs the order ingest service.
func NewService(p ServiceParam) domain.Service {
	return &service{
		repo:      p.Repo,
		hub:       p.Hub,
		dedup:     p.Dedup,
		listeners: p.Listeners,
		node:      p.Node,
		clock:     p.Clock,
		log:       p.Log.Named("order.service"),
		metrics:   p.Metrics,
	}
}

func (s *service) Ingest(ctx context.Context, restaurantID snowflake.ID, in domain.Incoming) (domain.IngestResult, error) {
	log := logger.WithContext(ctx, s.log)

	ref := strings.TrimSpace(in.ExternalRef)
	if ref == "" {
		return domain.IngestResult{}, domain.ErrMissingReference
	}
	if !in.OrderType.Valid() {
		return domain.IngestResult{}, domain.ErrInvalidOrderType
	}

	seen, err := s.dedup.Seen(ctx, restaurantID.String(), ref)
	if err != nil {
		// A broken deduper must not drop orders; the unique index is the
		// second line of defense.
		log.Warn("dedup check failed, continuing", zap.Error(err))
	}
	if seen {
		log.Info("order deduplicated",
			zap.String("restaurant_id", restaurantID.String()),
			zap.String("external_ref", ref),
		)
		s.metrics.RecordOrderIngested(ctx, restaurantID.String(), feed.StatusDeduplicated)
		return domain.IngestResult{Accepted: false}, nil
	}

	detail, err := json.Marshal(in.Items)
	if err != nil {
		return domain.IngestResult{}, err
	}

	order := domain.Order{
		ID:               s.node.Generate(),
		RestaurantID:     restaurantID,
		ExternalRef:      ref,
		CustomerName:     strings.TrimSpace(in.CustomerName),
		CustomerPhone:    strings.TrimSpace(in.CustomerPhone),
		OrderType:        in.OrderType,
		Address:          strings.TrimSpace(in.Address),
		ZoneID:           in.ZoneID,
		TotalCents:       in.TotalCents,
		DeliveryFeeCents: in.DeliveryFeeCents,
		Detail:           datatypes.JSON(detail),
		CreatedAt:        s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, &order); err != nil {
		if err == domain.ErrDuplicateOrder {
			s.metrics.RecordOrderIngested(ctx, restaurantID.String(), feed.StatusDeduplicated)
			return domain.IngestResult{Accepted: false}, nil
		}
		return domain.IngestResult{}, err
	}

	resp := order.ToResponse()
	s.hub.Publish(restaurantID.String(), feed.Event{Order: resp, Status: feed.StatusAccepted})
	s.listeners.For(restaurantID.String()).Push(resp)

	log.Info("order ingested",
		zap.String("restaurant_id", restaurantID.String()),
		zap.String("order_id", resp.ID),
		zap.String("order_type", string(order.OrderType)),
	)
	s.metrics.RecordOrderIngested(ctx, restaurantID.String(), feed.StatusAccepted)
	return domain.IngestResult{Order: resp, Accepted: true}, nil
}

func (s *service) List(ctx context.Context, restaurantID snowflake.ID, since time.Time, limit int) ([]domain.Response, error) {
	orders, err := s.repo.List(ctx, restaurantID, since, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Response, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ToResponse())
	}
	return out, nil
}
