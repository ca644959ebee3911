package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ordinlampo/ordinlampo/internal/clock"
	"github.com/ordinlampo/ordinlampo/internal/order/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenerPushAndUnread(t *testing.T) {
	clk := clock.NewFakeClock(time.Unix(1700000000, 0))
	l := NewListener(clk, 20, 8*time.Second)

	l.Push(domain.Response{ID: "1"})
	l.Push(domain.Response{ID: "2"})

	assert.Equal(t, 2, l.UnreadCount())
	notifications := l.Notifications()
	require.Len(t, notifications, 2)
	// Newest first.
	assert.Equal(t, "2", notifications[0].Order.ID)

	l.MarkRead()
	assert.Equal(t, 0, l.UnreadCount())
	assert.Len(t, l.Notifications(), 2, "marking read keeps the list")
}

func TestListenerCapsNotifications(t *testing.T) {
	clk := clock.NewFakeClock(time.Unix(1700000000, 0))
	l := NewListener(clk, 3, 8*time.Second)

	for i := 0; i < 5; i++ {
		l.Push(domain.Response{ID: fmt.Sprintf("%d", i)})
	}

	notifications := l.Notifications()
	require.Len(t, notifications, 3)
	assert.Equal(t, "4", notifications[0].Order.ID)
	assert.Equal(t, "2", notifications[2].Order.ID)
	assert.Equal(t, 5, l.UnreadCount(), "unread counts beyond the list cap")
}

func TestListenerAlertExpires(t *testing.T) {
	clk := clock.NewFakeClock(time.Unix(1700000000, 0))
	l := NewListener(clk, 20, 8*time.Second)

	l.Push(domain.Response{ID: "1"})
	require.NotNil(t, l.ActiveAlert())

	clk.Advance(7 * time.Second)
	require.NotNil(t, l.ActiveAlert())

	clk.Advance(1 * time.Second)
	assert.Nil(t, l.ActiveAlert())
}

func TestListenerAlertDismiss(t *testing.T) {
	clk := clock.NewFakeClock(time.Unix(1700000000, 0))
	l := NewListener(clk, 20, 8*time.Second)

	l.Push(domain.Response{ID: "1"})
	l.DismissAlert()
	assert.Nil(t, l.ActiveAlert())

	// A new order raises a fresh alert.
	l.Push(domain.Response{ID: "2"})
	alert := l.ActiveAlert()
	require.NotNil(t, alert)
	assert.Equal(t, "2", alert.Order.ID)
}

func TestMemoryDeduperBounded(t *testing.T) {
	d := NewMemoryDeduper(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		seen, err := d.Seen(ctx, "r1", fmt.Sprintf("ref-%d", i))
		require.NoError(t, err)
		assert.False(t, seen)
	}
	seen, err := d.Seen(ctx, "r1", "ref-0")
	require.NoError(t, err)
	assert.True(t, seen)

	// Overflow evicts the oldest reference.
	seen, err = d.Seen(ctx, "r1", "ref-3")
	require.NoError(t, err)
	assert.False(t, seen)
	seen, err = d.Seen(ctx, "r1", "ref-1")
	require.NoError(t, err)
	assert.False(t, seen, "evicted reference is forgotten")

	// Restaurants do not share sets.
	seen, err = d.Seen(ctx, "r2", "ref-3")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestHubBacklogAndFanOut(t *testing.T) {
	h := NewHub(2)

	// Publishing without subscribers is a no-op until someone subscribes.
	h.Publish("r1", Event{Order: domain.Response{ID: "0"}})

	sub, backlog, err := h.Subscribe("r1")
	require.NoError(t, err)
	defer sub.Close()
	assert.Empty(t, backlog)

	h.Publish("r1", Event{Order: domain.Response{ID: "1"}})
	h.Publish("r1", Event{Order: domain.Response{ID: "2"}})
	h.Publish("r1", Event{Order: domain.Response{ID: "3"}})

	late, backlog, err := h.Subscribe("r1")
	require.NoError(t, err)
	defer late.Close()
	require.Len(t, backlog, 2, "backlog is bounded")
	assert.Equal(t, "2", backlog[0].Order.ID)

	select {
	case ev := <-sub.Events():
		assert.Equal(t, "1", ev.Order.ID)
	default:
		t.Fatal("expected buffered event")
	}
}
