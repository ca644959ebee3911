package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	billingservice "github.com/ordinlampo/ordinlampo/internal/billing/service"
	checkoutservice "github.com/ordinlampo/ordinlampo/internal/checkout/service"
	"github.com/ordinlampo/ordinlampo/internal/clock"
	"github.com/ordinlampo/ordinlampo/internal/config"
	"github.com/ordinlampo/ordinlampo/internal/connectivity"
	"github.com/ordinlampo/ordinlampo/internal/order/feed"
	orderrepo "github.com/ordinlampo/ordinlampo/internal/order/repository"
	orderservice "github.com/ordinlampo/ordinlampo/internal/order/service"
	plandomain "github.com/ordinlampo/ordinlampo/internal/plan/domain"
	planrepo "github.com/ordinlampo/ordinlampo/internal/plan/repository"
	planservice "github.com/ordinlampo/ordinlampo/internal/plan/service"
	restaurantdomain "github.com/ordinlampo/ordinlampo/internal/restaurant/domain"
	restaurantrepo "github.com/ordinlampo/ordinlampo/internal/restaurant/repository"
	restaurantservice "github.com/ordinlampo/ordinlampo/internal/restaurant/service"
	"go.uber.org/zap"
)

// newTestServer wires the full stack on the file store and in-memory
// repositories, no database or network required.
func newTestServer(t *testing.T) (*Server, snowflake.ID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		StorageDriver:        config.StorageDriverFile,
		FileStorePath:        filepath.Join(t.TempDir(), "store.json"),
		BillingAnchorWeekday: time.Saturday,
		BillingTimezone:      "UTC",
		CheckoutReturnURL:    "http://localhost/admin/plan",
		FeedBacklogSize:      50,
		FeedNotifyCap:        20,
		FeedAlertDuration:    8 * time.Second,
	}
	log := zap.NewNop()
	clk := clock.NewFakeClock(time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC))
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatal(err)
	}

	store := restaurantrepo.NewFileStore(cfg.FileStorePath)
	rid := node.Generate()
	if err := store.Create(context.Background(), restaurantdomain.Record{
		ID:              rid,
		Name:            "Pokenjoy",
		WhatsappNumber:  "393896382394",
		DeliveryEnabled: true,
		PlanCode:        "starter",
	}); err != nil {
		t.Fatal(err)
	}

	restaurantSvc := restaurantservice.NewService(restaurantservice.ServiceParam{
		Store: store,
		Log:   log,
		Clock: clk,
	})

	plans := planrepo.NewMemory(plandomain.BuiltinCatalog(), store)
	planSvc := planservice.NewService(planservice.ServiceParam{Log: log, Repo: plans})

	orders := orderrepo.NewMemory()
	hub := feed.NewHub(cfg.FeedBacklogSize)
	registry := feed.NewRegistry(clk, cfg.FeedNotifyCap, cfg.FeedAlertDuration)
	orderSvc := orderservice.NewService(orderservice.ServiceParam{
		Repo:      orders,
		Hub:       hub,
		Dedup:     feed.NewMemoryDeduper(64),
		Listeners: registry,
		Node:      node,
		Clock:     clk,
		Log:       log,
	})

	billingSvc := billingservice.NewService(billingservice.ServiceParam{
		Cfg:    cfg,
		Clock:  clk,
		Orders: orders,
		Plans:  planSvc,
		Log:    log,
	})

	checkoutSvc := checkoutservice.NewService(checkoutservice.ServiceParam{
		Cfg:   cfg,
		Plans: planSvc,
		Log:   log,
	})

	probe := connectivity.NewProbe(connectivity.ProbeParam{
		Store: store,
		Clock: clk,
		Log:   log,
	})

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	srv := NewServer(ServerParams{
		Gin:           engine,
		Cfg:           cfg,
		GenID:         node,
		RestaurantSvc: restaurantSvc,
		PlanSvc:       planSvc,
		OrderSvc:      orderSvc,
		BillingSvc:    billingSvc,
		CheckoutSvc:   checkoutSvc,
		OrderFeed:     hub,
		OrderListen:   registry,
		Probe:         probe,
	})
	return srv, rid
}

func doJSON(t *testing.T, srv *Server, rid snowflake.ID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if rid != 0 {
		req.Header.Set(restaurantHeader, rid.String())
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestConfigEndpointsRequireRestaurantHeader(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, 0, http.MethodGet, "/admin/v1/config", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestZoneLifecycleOverHTTP(t *testing.T) {
	srv, rid := newTestServer(t)

	rec := doJSON(t, srv, rid, http.MethodPost, "/admin/v1/zones", map[string]string{
		"name":           "Sanremo",
		"fee":            "3,50",
		"estimated_time": "15-20 min",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var zone restaurantdomain.DeliveryZone
	if err := json.Unmarshal(rec.Body.Bytes(), &zone); err != nil {
		t.Fatal(err)
	}
	if zone.ID != "sanremo" || zone.FeeCents != 350 {
		t.Fatalf("unexpected zone %+v", zone)
	}

	// An invalid fee is rejected as a validation error.
	rec = doJSON(t, srv, rid, http.MethodPost, "/admin/v1/zones", map[string]string{
		"name":           "Bussana",
		"fee":            "abc",
		"estimated_time": "20-30 min",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, srv, rid, http.MethodPost, "/admin/v1/zones/sanremo/toggle", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Deleting without the confirm flag is rejected.
	rec = doJSON(t, srv, rid, http.MethodDelete, "/admin/v1/zones/sanremo", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, srv, rid, http.MethodDelete, "/admin/v1/zones/missing?confirm=true", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = doJSON(t, srv, rid, http.MethodDelete, "/admin/v1/zones/sanremo?confirm=true", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, srv, rid, http.MethodPost, "/admin/v1/config/save", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestToggleOperatingModeOverHTTP(t *testing.T) {
	srv, rid := newTestServer(t)

	rec := doJSON(t, srv, rid, http.MethodPost, "/admin/v1/operating-mode/toggle", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		DeliveryEnabled bool `json:"delivery_enabled"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.DeliveryEnabled {
		t.Fatal("expected delivery to be disabled after toggle")
	}
}

func TestOrderIngestAndNotificationsOverHTTP(t *testing.T) {
	srv, rid := newTestServer(t)

	payload := map[string]any{
		"external_ref":  "ord-1",
		"customer_name": "Mario",
		"order_type":    "delivery",
		"total_cents":   1400,
	}
	rec := doJSON(t, srv, rid, http.MethodPost, "/api/v1/orders", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// The replay is acknowledged, not stored.
	rec = doJSON(t, srv, rid, http.MethodPost, "/api/v1/orders", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, srv, rid, http.MethodGet, "/admin/v1/notifications", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var notifications struct {
		Unread int `json:"unread"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &notifications); err != nil {
		t.Fatal(err)
	}
	if notifications.Unread != 1 {
		t.Fatalf("expected 1 unread, got %d", notifications.Unread)
	}
}

func TestCheckoutGateOverHTTP(t *testing.T) {
	srv, rid := newTestServer(t)

	for _, key := range []string{"terms", "fees", "contract"} {
		rec := doJSON(t, srv, rid, http.MethodPost, "/admin/v1/checkout/premium/attest", map[string]any{
			"key":   key,
			"value": true,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("attest %s: expected 200, got %d: %s", key, rec.Code, rec.Body.String())
		}
	}

	// A too-short signatory name is rejected.
	rec := doJSON(t, srv, rid, http.MethodPost, "/admin/v1/checkout/premium/sign", map[string]string{
		"name": "ab",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, srv, rid, http.MethodPost, "/admin/v1/checkout/premium/sign", map[string]string{
		"name": "Mario Rossi",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// No provider is configured in this wiring, so submit answers 503
	// while the gate keeps its attestations.
	rec = doJSON(t, srv, rid, http.MethodPost, "/admin/v1/checkout/premium/submit", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, rid, http.MethodGet, "/admin/v1/checkout/premium", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var gate struct {
		State        string          `json:"state"`
		Attestations map[string]bool `json:"attestations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &gate); err != nil {
		t.Fatal(err)
	}
	if gate.State != "ready" {
		t.Fatalf("expected ready gate, got %s", gate.State)
	}
	for key, given := range gate.Attestations {
		if !given {
			t.Fatalf("attestation %s was lost", key)
		}
	}
}

func TestActivePlanResolvesFromStoredRecord(t *testing.T) {
	srv, rid := newTestServer(t)

	// The restaurant was created with plan_code=starter; no ChangePlan
	// call is needed for the assignment to be visible.
	rec := doJSON(t, srv, rid, http.MethodGet, "/admin/v1/plans/active", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var plan struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatal(err)
	}
	if plan.Code != "starter" {
		t.Fatalf("expected starter plan, got %q", plan.Code)
	}

	rec = doJSON(t, srv, rid, http.MethodPost, "/admin/v1/plans/change", map[string]string{
		"plan_code": "premium",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, rid, http.MethodGet, "/admin/v1/plans/active", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatal(err)
	}
	if plan.Code != "premium" {
		t.Fatalf("expected premium plan after change, got %q", plan.Code)
	}
}

func TestWeeklyBillingOverHTTP(t *testing.T) {
	srv, rid := newTestServer(t)

	for _, ref := range []string{"a", "b", "c"} {
		rec := doJSON(t, srv, rid, http.MethodPost, "/api/v1/orders", map[string]any{
			"external_ref": ref,
			"order_type":   "pickup",
			"total_cents":  1050,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("ingest %s: got %d", ref, rec.Code)
		}
	}

	rec := doJSON(t, srv, rid, http.MethodGet, "/admin/v1/billing/week", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var usage struct {
		OrderCount      int64 `json:"order_count"`
		AccruedFeeCents int64 `json:"accrued_fee_cents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &usage); err != nil {
		t.Fatal(err)
	}
	if usage.OrderCount != 3 || usage.AccruedFeeCents != 360 {
		t.Fatalf("unexpected usage %+v", usage)
	}
}
