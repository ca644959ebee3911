package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Deduper remembers order references that were already ingested. Seen
// returns true when the reference was recorded before; recording happens on
// the same call, so concurrent ingests of one reference race to a single
// winner.
type Deduper interface {
	Seen(ctx context.Context, restaurantID, ref string) (bool, error)
}

const (
	// DefaultDedupWindow bounds how long a reference blocks replays.
	DefaultDedupWindow = 24 * time.Hour
	// DefaultDedupCapacity bounds the in-memory set per restaurant.
	DefaultDedupCapacity = 1024
)

// memoryDeduper keeps a bounded per-restaurant set: a ring of references in
// insertion order evicts the oldest entry once the capacity is reached, so
// the set never grows without bound.
type memoryDeduper struct {
	mu       sync.Mutex
	capacity int
	sets     map[string]*refSet
}

type refSet struct {
	seen map[string]struct{}
	ring []string
	next int
}

// NewMemoryDeduper returns an in-process deduper holding at most capacity
// references per restaurant.
func NewMemoryDeduper(capacity int) Deduper {
	if capacity <= 0 {
		capacity = DefaultDedupCapacity
	}
	return &memoryDeduper{
		capacity: capacity,
		sets:     map[string]*refSet{},
	}
}

func (d *memoryDeduper) Seen(_ context.Context, restaurantID, ref string) (bool, error) {
	if ref == "" {
		return false, nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	set := d.sets[restaurantID]
	if set == nil {
		set = &refSet{
			seen: map[string]struct{}{},
			ring: make([]string, d.capacity),
		}
		d.sets[restaurantID] = set
	}
	if _, ok := set.seen[ref]; ok {
		return true, nil
	}
	if evicted := set.ring[set.next]; evicted != "" {
		delete(set.seen, evicted)
	}
	set.ring[set.next] = ref
	set.next = (set.next + 1) % d.capacity
	set.seen[ref] = struct{}{}
	return false, nil
}

// redisDeduper shares the seen-set across instances with SETNX and a TTL.
type redisDeduper struct {
	client *redis.Client
	window time.Duration
}

// NewRedisDeduper returns a deduper backed by the given redis client.
func NewRedisDeduper(client *redis.Client, window time.Duration) (Deduper, error) {
	if client == nil {
		return nil, errors.New("redis client not configured")
	}
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &redisDeduper{client: client, window: window}, nil
}

func (d *redisDeduper) Seen(ctx context.Context, restaurantID, ref string) (bool, error) {
	if ref == "" {
		return false, nil
	}
	key := fmt.Sprintf("ordinlampo:orders:seen:%s:%s", restaurantID, ref)
	set, err := d.client.SetNX(ctx, key, "1", d.window).Result()
	if err != nil {
		return false, err
	}
	return !set, nil
}
