package repository

import (
	"context"
	"sync"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/ordinlampo/ordinlampo/internal/plan/domain"
	restaurantdomain "github.com/ordinlampo/ordinlampo/internal/restaurant/domain"
	"gorm.io/gorm"
)

// memory is the catalog used with the file storage driver: the built-in
// tiers, with plan assignments resolved through the restaurant store so
// they survive restarts. The db argument is ignored.
type memory struct {
	mu    sync.RWMutex
	plans []plandomain.Plan
	store restaurantdomain.Store
}

// NewMemory returns an in-memory plan catalog seeded with the given tiers.
// Assignments read and write the restaurant record's plan columns.
func NewMemory(plans []plandomain.Plan, store restaurantdomain.Store) plandomain.Repository {
	return &memory{
		plans: append([]plandomain.Plan(nil), plans...),
		store: store,
	}
}

func (m *memory) List(_ context.Context, _ *gorm.DB) ([]plandomain.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]plandomain.Plan, 0, len(m.plans))
	for _, p := range m.plans {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memory) FindByCode(_ context.Context, _ *gorm.DB, code string) (*plandomain.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.plans {
		if p.Code == code {
			plan := p
			return &plan, nil
		}
	}
	return nil, nil
}

func (m *memory) ActivePlanForRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID) (*plandomain.Plan, error) {
	rec, err := m.store.Load(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if rec.PlanCode == "" {
		return nil, nil
	}
	return m.FindByCode(ctx, db, rec.PlanCode)
}

func (m *memory) AssignToRestaurant(ctx context.Context, _ *gorm.DB, restaurantID snowflake.ID, code string, status plandomain.SubscriptionStatus) error {
	return m.store.UpdatePlan(ctx, restaurantID, code, status)
}
