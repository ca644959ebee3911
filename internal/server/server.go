package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/ordinlampo/ordinlampo/internal/billing"
	billingdomain "github.com/ordinlampo/ordinlampo/internal/billing/domain"
	"github.com/ordinlampo/ordinlampo/internal/checkout"
	checkoutdomain "github.com/ordinlampo/ordinlampo/internal/checkout/domain"
	"github.com/ordinlampo/ordinlampo/internal/config"
	"github.com/ordinlampo/ordinlampo/internal/connectivity"
	"github.com/ordinlampo/ordinlampo/internal/observability"
	obsmiddleware "github.com/ordinlampo/ordinlampo/internal/observability/logger"
	obsmetrics "github.com/ordinlampo/ordinlampo/internal/observability/metrics"
	obstracing "github.com/ordinlampo/ordinlampo/internal/observability/tracing"
	"github.com/ordinlampo/ordinlampo/internal/order"
	orderdomain "github.com/ordinlampo/ordinlampo/internal/order/domain"
	"github.com/ordinlampo/ordinlampo/internal/order/feed"
	"github.com/ordinlampo/ordinlampo/internal/plan"
	plandomain "github.com/ordinlampo/ordinlampo/internal/plan/domain"
	"github.com/ordinlampo/ordinlampo/internal/restaurant"
	restaurantdomain "github.com/ordinlampo/ordinlampo/internal/restaurant/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	restaurant.Module,
	plan.Module,
	order.Module,
	billing.Module,
	checkout.Module,
	connectivity.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	genID         *snowflake.Node
	restaurantSvc restaurantdomain.Service
	planSvc       plandomain.Service
	orderSvc      orderdomain.Service
	billingSvc    billingdomain.Service
	checkoutSvc   checkoutdomain.Service
	orderFeed     *feed.Hub
	orderListen   *feed.Registry
	probe         *connectivity.Probe
	obsMetrics    *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	GenID         *snowflake.Node
	RestaurantSvc restaurantdomain.Service
	PlanSvc       plandomain.Service
	OrderSvc      orderdomain.Service
	BillingSvc    billingdomain.Service
	CheckoutSvc   checkoutdomain.Service
	OrderFeed     *feed.Hub
	OrderListen   *feed.Registry
	Probe         *connectivity.Probe
	ObsMetrics    *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		genID:         p.GenID,
		restaurantSvc: p.RestaurantSvc,
		planSvc:       p.PlanSvc,
		orderSvc:      p.OrderSvc,
		billingSvc:    p.BillingSvc,
		checkoutSvc:   p.CheckoutSvc,
		orderFeed:     p.OrderFeed,
		orderListen:   p.OrderListen,
		probe:         p.Probe,
		obsMetrics:    p.ObsMetrics,
	}

	svc.registerHealthRoutes()
	svc.registerIngestRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerHealthRoutes() {
	s.engine.GET("/health", s.Health)
}

// registerIngestRoutes serves the ordering frontend: order submission plus
// the public view of a restaurant's configuration.
func (s *Server) registerIngestRoutes() {
	api := s.engine.Group("/api/v1", s.RestaurantContext())

	api.POST("/orders", s.IngestOrder)
	api.GET("/config/public", s.PublicConfig)
}

// registerAdminRoutes serves the dashboard.
func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin/v1", s.RestaurantContext())

	admin.GET("/config", s.GetConfig)
	admin.POST("/config/save", s.SaveConfig)
	admin.PATCH("/profile", s.UpdateProfile)
	admin.POST("/operating-mode/toggle", s.ToggleOperatingMode)

	admin.POST("/zones", s.AddZone)
	admin.PATCH("/zones/:id", s.UpdateZone)
	admin.DELETE("/zones/:id", s.DeleteZone)
	admin.POST("/zones/:id/toggle", s.ToggleZone)
	admin.GET("/zones/cheapest", s.CheapestZone)

	admin.PUT("/prices/sizes/:id", s.SetSizePrice)
	admin.PUT("/prices/extras/:category", s.SetExtraPrice)
	admin.PUT("/prices/floor-delivery", s.SetFloorDelivery)
	admin.PUT("/prices/rider-tip", s.SetRiderTip)

	admin.GET("/plans", s.ListPlans)
	admin.GET("/plans/active", s.ActivePlan)
	admin.POST("/plans/change", s.ChangePlan)

	admin.GET("/billing/week", s.WeeklyBilling)

	admin.GET("/orders", s.ListOrders)
	admin.GET("/orders/stream", s.StreamOrders)
	admin.GET("/notifications", s.Notifications)
	admin.POST("/notifications/read", s.MarkNotificationsRead)
	admin.GET("/notifications/alert", s.ActiveAlert)
	admin.POST("/notifications/alert/dismiss", s.DismissAlert)

	admin.GET("/checkout/contract", s.CheckoutContract)
	admin.GET("/checkout/:plan", s.CheckoutGate)
	admin.POST("/checkout/:plan/attest", s.SetAttestation)
	admin.POST("/checkout/:plan/sign", s.SetSignature)
	admin.POST("/checkout/:plan/submit", s.SubmitCheckout)
}
