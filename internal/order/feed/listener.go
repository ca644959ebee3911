package feed

import (
	"sync"
	"time"

	"github.com/ordinlampo/ordinlampo/internal/clock"
	"github.com/ordinlampo/ordinlampo/internal/order/domain"
)

const (
	DefaultNotifyCap     = 20
	DefaultAlertDuration = 8 * time.Second
)

// Notification is one entry in the dashboard bell list.
type Notification struct {
	Order      domain.Response `json:"order"`
	ReceivedAt time.Time       `json:"received_at"`
}

// Alert is the transient new-order banner. It expires on its own after the
// configured duration or when dismissed.
type Alert struct {
	Order     domain.Response `json:"order"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Listener accumulates notifications for one restaurant: a bounded
// newest-first list, an unread counter, and the current alert.
type Listener struct {
	mu            sync.Mutex
	clock         clock.Clock
	cap           int
	alertDuration time.Duration

	notifications []Notification
	unread        int
	alert         *Alert
}

// NewListener constructs a listener keeping at most cap notifications.
func NewListener(clk clock.Clock, cap int, alertDuration time.Duration) *Listener {
	if cap <= 0 {
		cap = DefaultNotifyCap
	}
	if alertDuration <= 0 {
		alertDuration = DefaultAlertDuration
	}
	return &Listener{
		clock:         clk,
		cap:           cap,
		alertDuration: alertDuration,
	}
}

// Push records a new order: prepend to the list, trim to capacity, bump the
// unread counter, and replace the alert.
func (l *Listener) Push(order domain.Response) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.notifications = append([]Notification{{Order: order, ReceivedAt: now}}, l.notifications...)
	if len(l.notifications) > l.cap {
		l.notifications = l.notifications[:l.cap]
	}
	l.unread++
	l.alert = &Alert{Order: order, ExpiresAt: now.Add(l.alertDuration)}
}

// Notifications returns the list newest first.
func (l *Listener) Notifications() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Notification(nil), l.notifications...)
}

// UnreadCount returns the number of orders since the last MarkRead.
func (l *Listener) UnreadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unread
}

// MarkRead clears the unread counter, keeping the list.
func (l *Listener) MarkRead() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unread = 0
}

// ActiveAlert returns the current alert, or nil when it has expired or was
// dismissed.
func (l *Listener) ActiveAlert() *Alert {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.alert == nil {
		return nil
	}
	if !l.clock.Now().Before(l.alert.ExpiresAt) {
		l.alert = nil
		return nil
	}
	alert := *l.alert
	return &alert
}

// DismissAlert clears the alert before its expiry.
func (l *Listener) DismissAlert() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.alert = nil
}

// Registry hands out one listener per restaurant.
type Registry struct {
	mu            sync.Mutex
	clock         clock.Clock
	cap           int
	alertDuration time.Duration
	listeners     map[string]*Listener
}

// NewRegistry constructs the listener registry.
func NewRegistry(clk clock.Clock, cap int, alertDuration time.Duration) *Registry {
	return &Registry{
		clock:         clk,
		cap:           cap,
		alertDuration: alertDuration,
		listeners:     map[string]*Listener{},
	}
}

// For returns the listener for a restaurant, creating it on first use.
func (r *Registry) For(restaurantID string) *Listener {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listeners[restaurantID]
	if !ok {
		l = NewListener(r.clock, r.cap, r.alertDuration)
		r.listeners[restaurantID] = l
	}
	return l
}
