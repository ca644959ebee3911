// Package connectivity probes the backing services at startup and on demand
// for the health endpoint.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/ordinlampo/ordinlampo/internal/clock"
	restaurantdomain "github.com/ordinlampo/ordinlampo/internal/restaurant/domain"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const probeTimeout = 5 * time.Second

// Status is one dependency's probe outcome.
type Status struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Report aggregates the dependency probes.
type Report struct {
	Healthy   bool      `json:"healthy"`
	CheckedAt time.Time `json:"checked_at"`
	Checks    []Status  `json:"checks"`
}

// ProbeParam is the probe dependency set.
type ProbeParam struct {
	fx.In

	Store restaurantdomain.Store
	Clock clock.Clock
	Log   *zap.Logger
	Redis *redis.Client `optional:"true"`
}

// Probe checks the store and, when configured, redis.
type Probe struct {
	store restaurantdomain.Store
	redis *redis.Client
	clock clock.Clock
	log   *zap.Logger

	mu   sync.RWMutex
	last Report
}

// NewProbe constructs the connectivity probe.
func NewProbe(p ProbeParam) *Probe {
	return &Probe{
		store: p.Store,
		redis: p.Redis,
		clock: p.Clock,
		log:   p.Log.Named("connectivity"),
	}
}

// Check runs every dependency probe and caches the report.
func (p *Probe) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	report := Report{Healthy: true, CheckedAt: p.clock.Now()}

	storeStatus := Status{Name: "store", OK: true}
	if err := p.store.Ping(ctx); err != nil {
		storeStatus.OK = false
		storeStatus.Error = err.Error()
		report.Healthy = false
	}
	report.Checks = append(report.Checks, storeStatus)

	if p.redis != nil {
		redisStatus := Status{Name: "redis", OK: true}
		if err := p.redis.Ping(ctx).Err(); err != nil {
			redisStatus.OK = false
			redisStatus.Error = err.Error()
			report.Healthy = false
		}
		report.Checks = append(report.Checks, redisStatus)
	}

	p.mu.Lock()
	p.last = report
	p.mu.Unlock()
	return report
}

// Last returns the most recent report without probing again.
func (p *Probe) Last() Report {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// runStartupProbe checks connectivity once at boot. A failed probe is
// logged, not fatal: the store may come up moments after the app.
func runStartupProbe(lc fx.Lifecycle, probe *Probe, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			report := probe.Check(ctx)
			for _, check := range report.Checks {
				if check.OK {
					log.Info("dependency reachable", zap.String("dependency", check.Name))
					continue
				}
				log.Warn("dependency unreachable",
					zap.String("dependency", check.Name),
					zap.String("error", check.Error),
				)
			}
			return nil
		},
	})
}

// Module wires the connectivity probe and its startup check.
var Module = fx.Module("connectivity",
	fx.Provide(NewProbe),
	fx.Invoke(runStartupProbe),
)
