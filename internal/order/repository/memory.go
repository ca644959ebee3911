package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ordinlampo/ordinlampo/internal/money"
	"github.com/ordinlampo/ordinlampo/internal/order/domain"
)

// memory is the in-memory order repository used with the file storage
// driver and in tests.
type memory struct {
	mu     sync.RWMutex
	orders map[snowflake.ID][]domain.Order
	refs   map[snowflake.ID]map[string]struct{}
}

// NewMemory returns an in-memory order repository.
func NewMemory() domain.Repository {
	return &memory{
		orders: map[snowflake.ID][]domain.Order{},
		refs:   map[snowflake.ID]map[string]struct{}{},
	}
}

func (m *memory) Insert(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	refs := m.refs[order.RestaurantID]
	if refs == nil {
		refs = map[string]struct{}{}
		m.refs[order.RestaurantID] = refs
	}
	if order.ExternalRef != "" {
		if _, seen := refs[order.ExternalRef]; seen {
			return domain.ErrDuplicateOrder
		}
		refs[order.ExternalRef] = struct{}{}
	}
	m.orders[order.RestaurantID] = append(m.orders[order.RestaurantID], *order)
	return nil
}

func (m *memory) List(_ context.Context, restaurantID snowflake.ID, since time.Time, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Order, 0, limit)
	for _, o := range m.orders[restaurantID] {
		if !since.IsZero() && o.CreatedAt.Before(since) {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memory) CountInWindow(_ context.Context, restaurantID snowflake.ID, start, end time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, o := range m.orders[restaurantID] {
		if inWindow(o.CreatedAt, start, end) {
			count++
		}
	}
	return count, nil
}

func (m *memory) SumInWindow(_ context.Context, restaurantID snowflake.ID, start, end time.Time) (money.Cents, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total money.Cents
	for _, o := range m.orders[restaurantID] {
		if inWindow(o.CreatedAt, start, end) {
			total += o.TotalCents
		}
	}
	return total, nil
}

// inWindow checks membership in the half-open interval [start, end).
func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
