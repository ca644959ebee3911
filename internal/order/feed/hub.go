// Package feed fans incoming orders out to dashboard subscribers: a live
// stream per restaurant plus the bounded notification list behind the bell
// icon.
package feed

import (
	"errors"
	"sync"

	"github.com/ordinlampo/ordinlampo/internal/order/domain"
)

const (
	StatusAccepted     = "accepted"
	StatusDeduplicated = "deduplicated"
)

const (
	DefaultBacklogSize      = 50
	DefaultSubscriberBuffer = 16
)

// Event is one order as seen by feed subscribers.
type Event struct {
	Order  domain.Response `json:"order"`
	Status string          `json:"status"`
}

// Hub keeps one stream per restaurant. Publishing never blocks: slow
// subscribers drop events, and the backlog replays the most recent ones to
// new subscribers.
type Hub struct {
	mu               sync.RWMutex
	streams          map[string]*stream
	backlogSize      int
	subscriberBuffer int
}

type stream struct {
	mu      sync.Mutex
	backlog []Event
	subs    map[uint64]chan Event
	nextID  uint64
}

// Subscription is one subscriber's handle on a restaurant stream.
type Subscription struct {
	hub          *Hub
	restaurantID string
	id           uint64
	ch           chan Event
	once         sync.Once
}

// NewHub constructs a hub with the given backlog size per restaurant.
func NewHub(backlogSize int) *Hub {
	if backlogSize <= 0 {
		backlogSize = DefaultBacklogSize
	}
	return &Hub{
		streams:          make(map[string]*stream),
		backlogSize:      backlogSize,
		subscriberBuffer: DefaultSubscriberBuffer,
	}
}

// Publish appends the event to the restaurant backlog and offers it to every
// subscriber without blocking.
func (h *Hub) Publish(restaurantID string, event Event) {
	if h == nil || restaurantID == "" {
		return
	}
	h.mu.RLock()
	st := h.streams[restaurantID]
	h.mu.RUnlock()
	if st == nil {
		return
	}

	st.mu.Lock()
	st.backlog = append(st.backlog, event)
	if len(st.backlog) > h.backlogSize {
		st.backlog = st.backlog[len(st.backlog)-h.backlogSize:]
	}
	subs := make([]chan Event, 0, len(st.subs))
	for _, ch := range st.subs {
		subs = append(subs, ch)
	}
	st.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registers a subscriber and returns the backlog accumulated so
// far.
func (h *Hub) Subscribe(restaurantID string) (*Subscription, []Event, error) {
	if h == nil {
		return nil, nil, errors.New("hub_unavailable")
	}
	if restaurantID == "" {
		return nil, nil, errors.New("invalid_restaurant_id")
	}

	st := h.ensureStream(restaurantID)
	st.mu.Lock()
	if st.subs == nil {
		st.subs = make(map[uint64]chan Event)
	}
	id := st.nextID
	st.nextID++
	ch := make(chan Event, h.subscriberBuffer)
	st.subs[id] = ch
	backlog := append([]Event(nil), st.backlog...)
	st.mu.Unlock()

	return &Subscription{
		hub:          h,
		restaurantID: restaurantID,
		id:           id,
		ch:           ch,
	}, backlog, nil
}

func (h *Hub) ensureStream(restaurantID string) *stream {
	h.mu.RLock()
	current := h.streams[restaurantID]
	h.mu.RUnlock()
	if current != nil {
		return current
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	current = h.streams[restaurantID]
	if current == nil {
		current = &stream{subs: make(map[uint64]chan Event)}
		h.streams[restaurantID] = current
	}
	return current
}

func (h *Hub) unsubscribe(restaurantID string, id uint64) {
	if h == nil || restaurantID == "" {
		return
	}

	h.mu.RLock()
	st := h.streams[restaurantID]
	h.mu.RUnlock()
	if st == nil {
		return
	}

	st.mu.Lock()
	delete(st.subs, id)
	remaining := len(st.subs)
	st.mu.Unlock()
	if remaining != 0 {
		return
	}

	h.mu.Lock()
	current := h.streams[restaurantID]
	if current != st {
		h.mu.Unlock()
		return
	}
	st.mu.Lock()
	empty := len(st.subs) == 0
	st.mu.Unlock()
	if empty {
		delete(h.streams, restaurantID)
	}
	h.mu.Unlock()
}

// Events returns the subscriber channel.
func (s *Subscription) Events() <-chan Event {
	if s == nil {
		return nil
	}
	return s.ch
}

// Close detaches the subscriber; the stream is dropped once empty.
func (s *Subscription) Close() {
	if s == nil || s.hub == nil {
		return
	}
	s.once.Do(func() {
		s.hub.unsubscribe(s.restaurantID, s.id)
	})
}
