package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ordinlampo/ordinlampo/internal/clock"
	"github.com/ordinlampo/ordinlampo/internal/order/domain"
	"github.com/ordinlampo/ordinlampo/internal/order/feed"
	"github.com/ordinlampo/ordinlampo/internal/order/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, *feed.Hub, *feed.Registry, *clock.FakeClock) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Unix(1700000000, 0))
	hub := feed.NewHub(50)
	registry := feed.NewRegistry(clk, 20, 8*time.Second)
	svc := NewService(ServiceParam{
		Repo:      repository.NewMemory(),
		Hub:       hub,
		Dedup:     feed.NewMemoryDeduper(64),
		Listeners: registry,
		Node:      node,
		Clock:     clk,
		Log:       zap.NewNop(),
	})
	return svc, hub, registry, clk
}

func incoming(ref string) domain.Incoming {
	return domain.Incoming{
		ExternalRef:  ref,
		CustomerName: "Mario",
		OrderType:    domain.TypeDelivery,
		Address:      "Via Roma 1",
		ZoneID:       "sanremo",
		Items:        []domain.Item{{Name: "Poke Media", Quantity: 1, UnitCents: 1050}},
		TotalCents:   1400,
	}
}

func TestIngestPublishesAndNotifies(t *testing.T) {
	svc, hub, registry, _ := newTestService(t)
	ctx := context.Background()
	rid := snowflake.ID(2001)

	sub, _, err := hub.Subscribe(rid.String())
	require.NoError(t, err)
	defer sub.Close()

	res, err := svc.Ingest(ctx, rid, incoming("ord-1"))
	require.NoError(t, err)
	require.True(t, res.Accepted)
	assert.Equal(t, "14.00", res.Order.Total)

	select {
	case ev := <-sub.Events():
		assert.Equal(t, feed.StatusAccepted, ev.Status)
		assert.Equal(t, "ord-1", ev.Order.ExternalRef)
	default:
		t.Fatal("expected event on subscriber channel")
	}

	listener := registry.For(rid.String())
	assert.Equal(t, 1, listener.UnreadCount())
	require.NotNil(t, listener.ActiveAlert())
}

func TestIngestDeduplicates(t *testing.T) {
	svc, _, registry, _ := newTestService(t)
	ctx := context.Background()
	rid := snowflake.ID(2002)

	first, err := svc.Ingest(ctx, rid, incoming("ord-1"))
	require.NoError(t, err)
	require.True(t, first.Accepted)

	// Replaying the same reference stores nothing and raises no second
	// notification.
	second, err := svc.Ingest(ctx, rid, incoming("ord-1"))
	require.NoError(t, err)
	assert.False(t, second.Accepted)

	listener := registry.For(rid.String())
	assert.Equal(t, 1, listener.UnreadCount())
	assert.Len(t, listener.Notifications(), 1)

	orders, err := svc.List(ctx, rid, time.Time{}, 10)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestIngestValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	rid := snowflake.ID(2003)

	_, err := svc.Ingest(ctx, rid, domain.Incoming{OrderType: domain.TypeDelivery})
	assert.ErrorIs(t, err, domain.ErrMissingReference)

	in := incoming("ord-1")
	in.OrderType = "dine-in"
	_, err = svc.Ingest(ctx, rid, in)
	assert.ErrorIs(t, err, domain.ErrInvalidOrderType)
}

func TestListSinceAndLimit(t *testing.T) {
	svc, _, _, clk := newTestService(t)
	ctx := context.Background()
	rid := snowflake.ID(2004)

	for i, ref := range []string{"a", "b", "c"} {
		_ = i
		_, err := svc.Ingest(ctx, rid, incoming(ref))
		require.NoError(t, err)
		clk.Advance(time.Minute)
	}

	all, err := svc.List(ctx, rid, time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ExternalRef, "newest first")

	since := time.Unix(1700000000, 0).Add(90 * time.Second)
	recent, err := svc.List(ctx, rid, since, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "c", recent[0].ExternalRef)

	limited, err := svc.List(ctx, rid, time.Time{}, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
