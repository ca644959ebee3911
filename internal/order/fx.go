package order

import (
	"github.com/ordinlampo/ordinlampo/internal/clock"
	"github.com/ordinlampo/ordinlampo/internal/config"
	"github.com/ordinlampo/ordinlampo/internal/order/feed"
	"github.com/ordinlampo/ordinlampo/internal/order/repository"
	"github.com/ordinlampo/ordinlampo/internal/order/service"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// DeduperParam selects the dedup backend: redis when configured, the
// bounded in-memory set otherwise.
type DeduperParam struct {
	fx.In

	Cfg   config.Config
	Log   *zap.Logger
	Redis *redis.Client `optional:"true"`
}

func provideDeduper(p DeduperParam) (feed.Deduper, error) {
	if p.Redis != nil {
		p.Log.Info("using redis order dedup")
		return feed.NewRedisDeduper(p.Redis, feed.DefaultDedupWindow)
	}
	return feed.NewMemoryDeduper(feed.DefaultDedupCapacity), nil
}

func provideHub(cfg config.Config) *feed.Hub {
	return feed.NewHub(cfg.FeedBacklogSize)
}

func provideRegistry(cfg config.Config, clk clock.Clock) *feed.Registry {
	return feed.NewRegistry(clk, cfg.FeedNotifyCap, cfg.FeedAlertDuration)
}

// Module wires order persistence, the live feed, and the ingest service.
var Module = fx.Module("order",
	fx.Provide(
		repository.Provide,
		provideHub,
		provideRegistry,
		provideDeduper,
		service.NewService,
	),
)
