package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	ordersIngested   metric.Int64Counter
	configSaves      metric.Int64Counter
	modeToggles      metric.Int64Counter
	checkoutSessions metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "ordinlampo"
	}
	meter := provider.Meter(name)

	ordersIngested, err := meter.Int64Counter("ordinlampo_orders_ingested_total")
	if err != nil {
		return nil, err
	}
	configSaves, err := meter.Int64Counter("ordinlampo_config_saves_total")
	if err != nil {
		return nil, err
	}
	modeToggles, err := meter.Int64Counter("ordinlampo_operating_mode_toggles_total")
	if err != nil {
		return nil, err
	}
	checkoutSessions, err := meter.Int64Counter("ordinlampo_checkout_sessions_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ordersIngested:   ordersIngested,
		configSaves:      configSaves,
		modeToggles:      modeToggles,
		checkoutSessions: checkoutSessions,
	}, nil
}

// RecordOrderIngested increments order ingest counts. Status is either
// "accepted" or "deduplicated".
func (m *Metrics) RecordOrderIngested(ctx context.Context, restaurantID, status string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("restaurant_id", strings.TrimSpace(restaurantID)),
		attribute.String("status", strings.TrimSpace(status)),
	)
	m.ordersIngested.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordConfigSave increments configuration save counts.
func (m *Metrics) RecordConfigSave(ctx context.Context, restaurantID, result string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("restaurant_id", strings.TrimSpace(restaurantID)),
		attribute.String("result", strings.TrimSpace(result)),
	)
	m.configSaves.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordModeToggle increments operating-mode toggle counts. Result is
// "committed" or "reverted".
func (m *Metrics) RecordModeToggle(ctx context.Context, restaurantID, result string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("restaurant_id", strings.TrimSpace(restaurantID)),
		attribute.String("result", strings.TrimSpace(result)),
	)
	m.modeToggles.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCheckoutSession increments checkout session attempt counts.
func (m *Metrics) RecordCheckoutSession(ctx context.Context, planCode, result string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("plan_code", strings.TrimSpace(planCode)),
		attribute.String("result", strings.TrimSpace(result)),
	)
	m.checkoutSessions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"restaurant_id": {},
	"status":        {},
	"result":        {},
	"plan_code":     {},
	"endpoint":      {},
	"status_code":   {},
	"reason":        {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
