package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/ordinlampo/ordinlampo/internal/plan/domain"
	"github.com/ordinlampo/ordinlampo/internal/restaurant/domain"
)

// fileStore keeps every restaurant record in a single JSON file. It exists
// for single-tenant installs that run without a database; writes go through
// a temp file and rename so a crash never leaves a torn document.
type fileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a file-backed restaurant store rooted at path.
func NewFileStore(path string) domain.Store {
	return &fileStore{path: path}
}

type fileDocument struct {
	Restaurants map[string]domain.Record `json:"restaurants"`
}

func (s *fileStore) read() (*fileDocument, error) {
	doc := &fileDocument{Restaurants: map[string]domain.Record{}}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, err
	}
	if doc.Restaurants == nil {
		doc.Restaurants = map[string]domain.Record{}
	}
	return doc, nil
}

func (s *fileStore) write(doc *fileDocument) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *fileStore) Load(ctx context.Context, restaurantID snowflake.ID) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	rec, ok := doc.Restaurants[restaurantID.String()]
	if !ok {
		return nil, domain.ErrRestaurantNotFound
	}
	return &rec, nil
}

func (s *fileStore) SaveSettings(ctx context.Context, restaurantID snowflake.ID, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	prev, ok := doc.Restaurants[restaurantID.String()]
	if !ok {
		return domain.ErrRestaurantNotFound
	}
	// Settings saves never touch the plan columns.
	rec.ID = restaurantID
	rec.PlanCode = prev.PlanCode
	rec.SubscriptionStatus = prev.SubscriptionStatus
	doc.Restaurants[restaurantID.String()] = rec
	return s.write(doc)
}

func (s *fileStore) UpdateOperatingMode(ctx context.Context, restaurantID snowflake.ID, deliveryEnabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	rec, ok := doc.Restaurants[restaurantID.String()]
	if !ok {
		return domain.ErrRestaurantNotFound
	}
	rec.DeliveryEnabled = deliveryEnabled
	doc.Restaurants[restaurantID.String()] = rec
	return s.write(doc)
}

func (s *fileStore) UpdatePlan(ctx context.Context, restaurantID snowflake.ID, planCode string, status plandomain.SubscriptionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	rec, ok := doc.Restaurants[restaurantID.String()]
	if !ok {
		return domain.ErrRestaurantNotFound
	}
	rec.PlanCode = planCode
	rec.SubscriptionStatus = status
	doc.Restaurants[restaurantID.String()] = rec
	return s.write(doc)
}

func (s *fileStore) Create(ctx context.Context, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Restaurants[rec.ID.String()] = rec
	return s.write(doc)
}

func (s *fileStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.read()
	return err
}
