package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/ordinlampo/ordinlampo/internal/checkout/domain"
	"github.com/ordinlampo/ordinlampo/internal/config"
	"github.com/ordinlampo/ordinlampo/internal/observability/logger"
	"github.com/ordinlampo/ordinlampo/internal/observability/metrics"
	plandomain "github.com/ordinlampo/ordinlampo/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ServiceParam is the service dependency set.
type ServiceParam struct {
	fx.In

	Cfg     config.Config
	Plans   plandomain.Service
	Minter  domain.SessionMinter `optional:"true"`
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

type gateState struct {
	attestations map[domain.AttestationKey]bool
	signature    string
	state        domain.GateState
	redirectURL  string
	lastError    string
}

type service struct {
	cfg     config.Config
	plans   plandomain.Service
	minter  domain.SessionMinter
	log     *zap.Logger
	metrics *metrics.Metrics

	mu    sync.Mutex
	gates map[string]*gateState
}

// NewService constructs the checkout gate service.
func NewService(p ServiceParam) domain.Service {
	return &service{
		cfg:     p.Cfg,
		plans:   p.Plans,
		minter:  p.Minter,
		log:     p.Log.Named("checkout.service"),
		metrics: p.Metrics,
		gates:   map[string]*gateState{},
	}
}

func gateKey(restaurantID snowflake.ID, planCode string) string {
	return fmt.Sprintf("%s:%s", restaurantID, planCode)
}

func (s *service) gate(restaurantID snowflake.ID, planCode string) *gateState {
	key := gateKey(restaurantID, planCode)
	g, ok := s.gates[key]
	if !ok {
		g = &gateState{
			attestations: map[domain.AttestationKey]bool{},
			state:        domain.StateUnacknowledged,
		}
		s.gates[key] = g
	}
	return g
}

// recomputeState settles the gate between the three attestation-driven
// states. Submit-driven states are assigned explicitly and not touched here.
func (g *gateState) recomputeState() {
	given := 0
	for _, key := range domain.RequiredAttestations {
		if g.attestations[key] {
			given++
		}
	}
	switch {
	case given == 0 && g.signature == "":
		g.state = domain.StateUnacknowledged
	case given < len(domain.RequiredAttestations) || !signatureValid(g):
		g.state = domain.StatePartial
	default:
		g.state = domain.StateReady
	}
}

func signatureValid(g *gateState) bool {
	return len([]rune(g.signature)) >= domain.MinSignatureLength
}

func (g *gateState) view(planCode string) domain.Gate {
	attestations := make(map[domain.AttestationKey]bool, len(domain.RequiredAttestations))
	for _, key := range domain.RequiredAttestations {
		attestations[key] = g.attestations[key]
	}
	return domain.Gate{
		PlanCode:     planCode,
		State:        g.state,
		Attestations: attestations,
		Signature:    g.signature,
		RedirectURL:  g.redirectURL,
		LastError:    g.lastError,
	}
}

func (s *service) Gate(ctx context.Context, restaurantID snowflake.ID, planCode string) (domain.Gate, error) {
	if _, err := s.plans.GetByCode(ctx, planCode); err != nil {
		return domain.Gate{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gate(restaurantID, planCode).view(planCode), nil
}

func (s *service) SetAttestation(ctx context.Context, restaurantID snowflake.ID, planCode string, key domain.AttestationKey, value bool) (domain.Gate, error) {
	if !key.Known() {
		return domain.Gate{}, domain.ErrUnknownAttestation
	}
	if _, err := s.plans.GetByCode(ctx, planCode); err != nil {
		return domain.Gate{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.gate(restaurantID, planCode)
	if g.state == domain.StateSubmitting {
		return domain.Gate{}, domain.ErrSubmitInFlight
	}
	g.attestations[key] = value
	g.lastError = ""
	g.recomputeState()
	return g.view(planCode), nil
}

func (s *service) SetSignature(ctx context.Context, restaurantID snowflake.ID, planCode, name string) (domain.Gate, error) {
	name = strings.TrimSpace(name)
	if name != "" && len([]rune(name)) < domain.MinSignatureLength {
		return domain.Gate{}, domain.ErrSignatureTooShort
	}
	if _, err := s.plans.GetByCode(ctx, planCode); err != nil {
		return domain.Gate{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.gate(restaurantID, planCode)
	if g.state == domain.StateSubmitting {
		return domain.Gate{}, domain.ErrSubmitInFlight
	}
	g.signature = name
	g.lastError = ""
	g.recomputeState()
	return g.view(planCode), nil
}

func (s *service) Submit(ctx context.Context, restaurantID snowflake.ID, planCode string) (domain.Gate, error) {
	log := logger.WithContext(ctx, s.log)

	if _, err := s.plans.GetByCode(ctx, planCode); err != nil {
		return domain.Gate{}, err
	}

	s.mu.Lock()
	g := s.gate(restaurantID, planCode)
	switch g.state {
	case domain.StateSubmitting:
		s.mu.Unlock()
		return domain.Gate{}, domain.ErrSubmitInFlight
	case domain.StateReady, domain.StateFailed:
		// Failed gates keep their attestations and signature, so a retry
		// from failed is a retry, not a restart.
		if !allGiven(g) || !signatureValid(g) {
			s.mu.Unlock()
			return domain.Gate{}, domain.ErrGateNotReady
		}
	default:
		s.mu.Unlock()
		return domain.Gate{}, domain.ErrGateNotReady
	}
	if s.minter == nil {
		s.mu.Unlock()
		return domain.Gate{}, domain.ErrNoProvider
	}
	g.state = domain.StateSubmitting
	s.mu.Unlock()

	session, err := s.minter.Mint(ctx, restaurantID, planCode, s.cfg.CheckoutReturnURL)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		g.state = domain.StateFailed
		g.lastError = err.Error()
		log.Warn("checkout session failed",
			zap.String("restaurant_id", restaurantID.String()),
			zap.String("plan_code", planCode),
			zap.Error(err),
		)
		s.metrics.RecordCheckoutSession(ctx, planCode, "failed")
		return g.view(planCode), domain.ErrProviderFailed
	}

	g.state = domain.StateRedirected
	g.redirectURL = session.RedirectURL
	g.lastError = ""
	log.Info("checkout session minted",
		zap.String("restaurant_id", restaurantID.String()),
		zap.String("plan_code", planCode),
		zap.String("session_id", session.ID),
	)
	s.metrics.RecordCheckoutSession(ctx, planCode, "redirected")
	return g.view(planCode), nil
}

func allGiven(g *gateState) bool {
	for _, key := range domain.RequiredAttestations {
		if !g.attestations[key] {
			return false
		}
	}
	return true
}

func (s *service) Contract(ctx context.Context) (string, error) {
	path := strings.TrimSpace(s.cfg.ContractPath)
	if path == "" {
		return defaultContract, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

const defaultContract = `Service agreement

The platform forwards incoming orders to the restaurant and accrues a
per-order fee according to the selected plan. Fees are settled weekly.
By confirming you accept the plan conditions shown at checkout.`
