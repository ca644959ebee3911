package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/ordinlampo/ordinlampo/internal/clock"
	"github.com/ordinlampo/ordinlampo/internal/money"
	"github.com/ordinlampo/ordinlampo/internal/observability/logger"
	"github.com/ordinlampo/ordinlampo/internal/observability/metrics"
	"github.com/ordinlampo/ordinlampo/internal/optimistic"
	"github.com/ordinlampo/ordinlampo/internal/restaurant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ServiceParam is the service dependency set.
type ServiceParam struct {
	fx.In

	Store   domain.Store
	Log     *zap.Logger
	Clock   clock.Clock
	Metrics *metrics.Metrics `optional:"true"`
}

// editorState holds one restaurant's working copy. The operating-mode flag
// commits eagerly; everything else waits for SaveAll.
type editorState struct {
	snap domain.Snapshot
	mode *optimistic.Flag
}

type service struct {
	store   domain.Store
	log     *zap.Logger
	clock   clock.Clock
	metrics *metrics.Metrics

	mu     sync.RWMutex
	states map[snowflake.ID]*editorState
}

// NewService constructs the restaurant configuration editor.
func NewService(p ServiceParam) domain.Service {
	return &service{
		store:   p.Store,
		log:     p.Log.Named("restaurant.service"),
		clock:   p.Clock,
		metrics: p.Metrics,
		states:  map[snowflake.ID]*editorState{},
	}
}

func (s *service) state(ctx context.Context, restaurantID snowflake.ID) (*editorState, error) {
	s.mu.RLock()
	st, ok := s.states[restaurantID]
	s.mu.RUnlock()
	if ok {
		return st, nil
	}

	rec, err := s.store.Load(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	snap := mergeRecord(restaurantID, *rec)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.states[restaurantID]; ok {
		return existing, nil
	}
	st = &editorState{
		snap: snap,
		mode: optimistic.NewFlag(snap.DeliveryEnabled),
	}
	s.states[restaurantID] = st
	return st, nil
}

// mergeRecord overlays a stored record onto the defaults field by field, so
// documents written by older versions never wipe newer settings.
func mergeRecord(restaurantID snowflake.ID, rec domain.Record) domain.Snapshot {
	snap := domain.DefaultSnapshot(restaurantID)
	snap.Name = rec.Name
	snap.WhatsappNumber = rec.WhatsappNumber
	snap.DeliveryEnabled = rec.DeliveryEnabled
	snap.PlanCode = rec.PlanCode
	snap.SubscriptionStatus = rec.SubscriptionStatus

	doc := rec.Settings
	if doc.DeliveryZones != nil {
		snap.Zones = append([]domain.DeliveryZone(nil), doc.DeliveryZones...)
	}
	if len(doc.SizeTiers) > 0 {
		snap.Sizes = append([]domain.SizeTier(nil), doc.SizeTiers...)
	}
	if doc.ExtraPrices != nil {
		snap.Extras = *doc.ExtraPrices
	}
	if doc.FloorDelivery != nil {
		snap.FloorDelivery = *doc.FloorDelivery
	}
	if doc.RiderTipCents != nil {
		snap.RiderTipCents = *doc.RiderTipCents
	}
	if snap.Name == "" {
		snap.Name = doc.RestaurantName
	}
	if snap.WhatsappNumber == "" {
		snap.WhatsappNumber = doc.WhatsappNumber
	}
	return snap
}

func copySnapshot(snap domain.Snapshot) domain.Snapshot {
	out := snap
	out.Zones = append([]domain.DeliveryZone(nil), snap.Zones...)
	out.Sizes = append([]domain.SizeTier(nil), snap.Sizes...)
	return out
}

func (s *service) Load(ctx context.Context, restaurantID snowflake.ID) (domain.Snapshot, error) {
	st, err := s.state(ctx, restaurantID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := copySnapshot(st.snap)
	snap.DeliveryEnabled = st.mode.Value()
	return snap, nil
}

// zoneID derives a stable identifier from the zone name; on collision with
// an existing zone the clock timestamp disambiguates.
func (s *service) zoneID(zones []domain.DeliveryZone, name string) string {
	id := slug.Make(name)
	if id == "" {
		id = "zone"
	}
	taken := func(candidate string) bool {
		for _, z := range zones {
			if z.ID == candidate {
				return true
			}
		}
		return false
	}
	if !taken(id) {
		return id
	}
	stamped := fmt.Sprintf("%s-%d", id, s.clock.Now().UnixMilli())
	for i := 0; taken(stamped); i++ {
		stamped = fmt.Sprintf("%s-%d-%d", id, s.clock.Now().UnixMilli(), i)
	}
	return stamped
}

func (s *service) AddZone(ctx context.Context, restaurantID snowflake.ID, name, feeRaw, estimatedTime string) (domain.DeliveryZone, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.DeliveryZone{}, domain.ErrZoneNameRequired
	}
	estimatedTime = strings.TrimSpace(estimatedTime)
	if estimatedTime == "" {
		return domain.DeliveryZone{}, domain.ErrZoneEtaRequired
	}
	fee, err := money.ParseNonNegative(feeRaw)
	if err != nil {
		return domain.DeliveryZone{}, domain.ErrInvalidZoneFee
	}

	st, err := s.state(ctx, restaurantID)
	if err != nil {
		return domain.DeliveryZone{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	zone := domain.DeliveryZone{
		ID:            s.zoneID(st.snap.Zones, name),
		Name:          name,
		FeeCents:      fee,
		EstimatedTime: estimatedTime,
		Active:        true,
	}
	st.snap.Zones = append(st.snap.Zones, zone)

	s.log.Info("zone added",
		zap.String("restaurant_id", restaurantID.String()),
		zap.String("zone_id", zone.ID),
	)
	return zone, nil
}

func (s *service) UpdateZone(ctx context.Context, restaurantID snowflake.ID, zoneID string, patch domain.ZonePatch) (domain.DeliveryZone, error) {
	st, err := s.state(ctx, restaurantID)
	if err != nil {
		return domain.DeliveryZone{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range st.snap.Zones {
		z := &st.snap.Zones[i]
		if z.ID != zoneID {
			continue
		}
		if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
			z.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.FeeRaw != nil {
			// An unparsable fee edit keeps the previous value instead of
			// zeroing the zone out mid-typing.
			if fee, err := money.ParseNonNegative(*patch.FeeRaw); err == nil {
				z.FeeCents = fee
			}
		}
		if patch.EstimatedTime != nil {
			z.EstimatedTime = strings.TrimSpace(*patch.EstimatedTime)
		}
		if patch.Active != nil {
			z.Active = *patch.Active
		}
		return *z, nil
	}
	return domain.DeliveryZone{}, domain.ErrZoneNotFound
}

func (s *service) DeleteZone(ctx context.Context, restaurantID snowflake.ID, zoneID string, confirmed bool) error {
	if !confirmed {
		return domain.ErrDeleteNotConfirmed
	}

	st, err := s.state(ctx, restaurantID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, z := range st.snap.Zones {
		if z.ID == zoneID {
			st.snap.Zones = append(st.snap.Zones[:i], st.snap.Zones[i+1:]...)
			return nil
		}
	}
	return domain.ErrZoneNotFound
}

func (s *service) ToggleZoneActive(ctx context.Context, restaurantID snowflake.ID, zoneID string) (domain.DeliveryZone, error) {
	st, err := s.state(ctx, restaurantID)
	if err != nil {
		return domain.DeliveryZone{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range st.snap.Zones {
		if st.snap.Zones[i].ID == zoneID {
			st.snap.Zones[i].Active = !st.snap.Zones[i].Active
			return st.snap.Zones[i], nil
		}
	}
	return domain.DeliveryZone{}, domain.ErrZoneNotFound
}

func (s *service) CheapestActiveZone(ctx context.Context, restaurantID snowflake.ID) (*domain.DeliveryZone, error) {
	st, err := s.state(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	active := make([]domain.DeliveryZone, 0, len(st.snap.Zones))
	for _, z := range st.snap.Zones {
		if z.Active {
			active = append(active, z)
		}
	}
	if len(active) == 0 {
		return nil, nil
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].FeeCents < active[j].FeeCents
	})
	cheapest := active[0]
	return &cheapest, nil
}

func (s *service) SetSizePrice(ctx context.Context, restaurantID snowflake.ID, sizeID, raw string) error {
	price, err := money.ParseNonNegative(raw)
	if err != nil {
		return domain.ErrInvalidPrice
	}
	st, err := s.state(ctx, restaurantID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range st.snap.Sizes {
		if st.snap.Sizes[i].ID == sizeID {
			st.snap.Sizes[i].PriceCents = price
			return nil
		}
	}
	return domain.ErrUnknownSize
}

func (s *service) SetExtraPrice(ctx context.Context, restaurantID snowflake.ID, category domain.ExtraCategory, raw string) error {
	price, err := money.ParseNonNegative(raw)
	if err != nil {
		return domain.ErrInvalidPrice
	}
	st, err := s.state(ctx, restaurantID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch category {
	case domain.ExtraProtein:
		st.snap.Extras.ProteinCents = price
	case domain.ExtraIngredient:
		st.snap.Extras.IngredientCents = price
	case domain.ExtraSauce:
		st.snap.Extras.SauceCents = price
	default:
		return domain.ErrUnknownExtra
	}
	return nil
}

func (s *service) SetFloorDelivery(ctx context.Context, restaurantID snowflake.ID, enabled bool, feeRaw string) error {
	var fee *money.Cents
	if strings.TrimSpace(feeRaw) != "" {
		parsed, err := money.ParseNonNegative(feeRaw)
		if err != nil {
			return domain.ErrInvalidPrice
		}
		fee = &parsed
	}
	st, err := s.state(ctx, restaurantID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st.snap.FloorDelivery.Enabled = enabled
	if fee != nil {
		st.snap.FloorDelivery.FeeCents = *fee
	}
	return nil
}

func (s *service) SetRiderTip(ctx context.Context, restaurantID snowflake.ID, raw string) error {
	price, err := money.ParseNonNegative(raw)
	if err != nil {
		return domain.ErrInvalidPrice
	}
	st, err := s.state(ctx, restaurantID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st.snap.RiderTipCents = price
	return nil
}

func (s *service) UpdateProfile(ctx context.Context, restaurantID snowflake.ID, patch domain.ProfilePatch) (domain.Snapshot, error) {
	st, err := s.state(ctx, restaurantID)
	if err != nil {
		return domain.Snapshot{}, err
	}

	s.mu.Lock()
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		st.snap.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.WhatsappNumber != nil {
		st.snap.WhatsappNumber = strings.TrimSpace(*patch.WhatsappNumber)
	}
	snap := copySnapshot(st.snap)
	s.mu.Unlock()

	// Profile edits persist immediately; the rest of the snapshot rides
	// along unchanged.
	if err := s.persist(ctx, restaurantID, snap); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

func (s *service) ToggleOperatingMode(ctx context.Context, restaurantID snowflake.ID) (bool, error) {
	st, err := s.state(ctx, restaurantID)
	if err != nil {
		return false, err
	}

	log := logger.WithContext(ctx, s.log)
	value, err := st.mode.Toggle(ctx, func(ctx context.Context, next bool) error {
		return s.store.UpdateOperatingMode(ctx, restaurantID, next)
	})
	if err != nil {
		log.Warn("operating mode toggle reverted",
			zap.String("restaurant_id", restaurantID.String()),
			zap.Bool("delivery_enabled", value),
			zap.Error(err),
		)
		s.metrics.RecordModeToggle(ctx, restaurantID.String(), "reverted")
		return value, err
	}

	s.mu.Lock()
	st.snap.DeliveryEnabled = value
	s.mu.Unlock()

	log.Info("operating mode toggled",
		zap.String("restaurant_id", restaurantID.String()),
		zap.Bool("delivery_enabled", value),
	)
	s.metrics.RecordModeToggle(ctx, restaurantID.String(), "committed")
	return value, nil
}

func (s *service) SaveAll(ctx context.Context, restaurantID snowflake.ID) error {
	st, err := s.state(ctx, restaurantID)
	if err != nil {
		return err
	}

	s.mu.RLock()
	snap := copySnapshot(st.snap)
	snap.DeliveryEnabled = st.mode.Value()
	s.mu.RUnlock()

	if err := s.persist(ctx, restaurantID, snap); err != nil {
		s.metrics.RecordConfigSave(ctx, restaurantID.String(), "error")
		return err
	}
	s.metrics.RecordConfigSave(ctx, restaurantID.String(), "ok")
	return nil
}

func (s *service) persist(ctx context.Context, restaurantID snowflake.ID, snap domain.Snapshot) error {
	rec := domain.Record{
		ID:                 restaurantID,
		Name:               snap.Name,
		WhatsappNumber:     snap.WhatsappNumber,
		DeliveryEnabled:    snap.DeliveryEnabled,
		PlanCode:           snap.PlanCode,
		SubscriptionStatus: snap.SubscriptionStatus,
		Settings:           snap.Document(s.clock.Now()),
	}
	return s.store.SaveSettings(ctx, restaurantID, rec)
}

func (s *service) RiderTip(ctx context.Context, restaurantID snowflake.ID) (money.Cents, error) {
	st, err := s.state(ctx, restaurantID)
	if err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return st.snap.RiderTipCents, nil
}
