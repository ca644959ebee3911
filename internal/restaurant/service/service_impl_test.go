package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ordinlampo/ordinlampo/internal/clock"
	"github.com/ordinlampo/ordinlampo/internal/money"
	plandomain "github.com/ordinlampo/ordinlampo/internal/plan/domain"
	"github.com/ordinlampo/ordinlampo/internal/restaurant/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	records map[snowflake.ID]domain.Record

	saveErr error
	modeErr error

	saved       int
	modeUpdates []bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[snowflake.ID]domain.Record{}}
}

func (f *fakeStore) Load(_ context.Context, id snowflake.ID) (*domain.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, domain.ErrRestaurantNotFound
	}
	return &rec, nil
}

func (f *fakeStore) SaveSettings(_ context.Context, id snowflake.ID, rec domain.Record) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if _, ok := f.records[id]; !ok {
		return domain.ErrRestaurantNotFound
	}
	f.records[id] = rec
	f.saved++
	return nil
}

func (f *fakeStore) UpdateOperatingMode(_ context.Context, id snowflake.ID, enabled bool) error {
	if f.modeErr != nil {
		return f.modeErr
	}
	rec, ok := f.records[id]
	if !ok {
		return domain.ErrRestaurantNotFound
	}
	rec.DeliveryEnabled = enabled
	f.records[id] = rec
	f.modeUpdates = append(f.modeUpdates, enabled)
	return nil
}

func (f *fakeStore) UpdatePlan(_ context.Context, id snowflake.ID, planCode string, status plandomain.SubscriptionStatus) error {
	rec, ok := f.records[id]
	if !ok {
		return domain.ErrRestaurantNotFound
	}
	rec.PlanCode = planCode
	rec.SubscriptionStatus = status
	f.records[id] = rec
	return nil
}

func (f *fakeStore) Create(_ context.Context, rec domain.Record) error {
	f.records[rec.ID] = rec
	return nil
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func newTestService(t *testing.T, store domain.Store, clk clock.Clock) domain.Service {
	t.Helper()
	return NewService(ServiceParam{
		Store: store,
		Log:   zap.NewNop(),
		Clock: clk,
	})
}

func seedRestaurant(store *fakeStore, id snowflake.ID) {
	store.records[id] = domain.Record{
		ID:              id,
		Name:            "Pokenjoy",
		WhatsappNumber:  "393896382394",
		DeliveryEnabled: true,
		PlanCode:        "starter",
	}
}

func TestLoadMergesPartialDocument(t *testing.T) {
	store := newFakeStore()
	id := snowflake.ID(1001)
	tip := money.Cents(200)
	store.records[id] = domain.Record{
		ID:              id,
		Name:            "Pokenjoy",
		DeliveryEnabled: true,
		Settings: domain.SettingsDocument{
			DeliveryZones: []domain.DeliveryZone{
				{ID: "sanremo", Name: "Sanremo", FeeCents: 350, EstimatedTime: "15-20 min", Active: true},
			},
			RiderTipCents: &tip,
		},
	}

	svc := newTestService(t, store, clock.NewFakeClock(time.Now()))
	snap, err := svc.Load(context.Background(), id)
	require.NoError(t, err)

	// Stored fields win, unspecified ones fall back to defaults.
	require.Len(t, snap.Zones, 1)
	assert.Equal(t, money.Cents(200), snap.RiderTipCents)
	require.Len(t, snap.Sizes, 3)
	assert.Equal(t, money.Cents(850), snap.Sizes[0].PriceCents)
	assert.Equal(t, money.Cents(100), snap.Extras.ProteinCents)
	assert.True(t, snap.FloorDelivery.Enabled)
}

func TestLoadStartsWithZeroZones(t *testing.T) {
	store := newFakeStore()
	id := snowflake.ID(1002)
	seedRestaurant(store, id)

	svc := newTestService(t, store, clock.NewFakeClock(time.Now()))
	snap, err := svc.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, snap.Zones)
}

func TestAddZoneGeneratesUniqueIDs(t *testing.T) {
	store := newFakeStore()
	id := snowflake.ID(1003)
	seedRestaurant(store, id)

	clk := clock.NewFakeClock(time.Unix(1700000000, 0))
	svc := newTestService(t, store, clk)
	ctx := context.Background()

	first, err := svc.AddZone(ctx, id, "Sanremo", "3,50", "15-20 min")
	require.NoError(t, err)
	assert.Equal(t, "sanremo", first.ID)
	assert.Equal(t, money.Cents(350), first.FeeCents)
	assert.True(t, first.Active)

	second, err := svc.AddZone(ctx, id, "Sanremo", "4.00", "20-30 min")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Contains(t, second.ID, "sanremo-")
}

func TestAddZoneValidation(t *testing.T) {
	store := newFakeStore()
	id := snowflake.ID(1004)
	seedRestaurant(store, id)

	svc := newTestService(t, store, clock.NewFakeClock(time.Now()))
	ctx := context.Background()

	_, err := svc.AddZone(ctx, id, "   ", "3.50", "15-20 min")
	assert.ErrorIs(t, err, domain.ErrZoneNameRequired)

	_, err = svc.AddZone(ctx, id, "Bussana", "3.50", "   ")
	assert.ErrorIs(t, err, domain.ErrZoneEtaRequired)

	_, err = svc.AddZone(ctx, id, "Bussana", "abc", "15-20 min")
	assert.ErrorIs(t, err, domain.ErrInvalidZoneFee)
}

func TestUpdateZoneInvalidFeeRetainsPrevious(t *testing.T) {
	store := newFakeStore()
	id := snowflake.ID(1005)
	seedRestaurant(store, id)

	svc := newTestService(t, store, clock.NewFakeClock(time.Now()))
	ctx := context.Background()

	zone, err := svc.AddZone(ctx, id, "Arma di Taggia", "4.50", "25-35 min")
	require.NoError(t, err)

	bad := "not-a-number"
	updated, err := svc.UpdateZone(ctx, id, zone.ID, domain.ZonePatch{FeeRaw: &bad})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(450), updated.FeeCents)

	good := "5,00"
	updated, err = svc.UpdateZone(ctx, id, zone.ID, domain.ZonePatch{FeeRaw: &good})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(500), updated.FeeCents)
}

func TestDeleteZone(t *testing.T) {
	store := newFakeStore()
	id := snowflake.ID(1006)
	seedRestaurant(store, id)

	svc := newTestService(t, store, clock.NewFakeClock(time.Now()))
	ctx := context.Background()

	zone, err := svc.AddZone(ctx, id, "Ospedaletti", "3.00", "10-15 min")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteZone(ctx, id, zone.ID, false), domain.ErrDeleteNotConfirmed)

	require.NoError(t, svc.DeleteZone(ctx, id, zone.ID, true))
	assert.ErrorIs(t, svc.DeleteZone(ctx, id, zone.ID, true), domain.ErrZoneNotFound)

	snap, err := svc.Load(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, snap.Zones)
}

func TestCheapestActiveZone(t *testing.T) {
	store := newFakeStore()
	id := snowflake.ID(1007)
	seedRestaurant(store, id)

	svc := newTestService(t, store, clock.NewFakeClock(time.Now()))
	ctx := context.Background()

	cheap, err := svc.CheapestActiveZone(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, cheap)

	_, err = svc.AddZone(ctx, id, "Sanremo", "3.50", "15-20 min")
	require.NoError(t, err)
	budget, err := svc.AddZone(ctx, id, "Centro", "2.00", "10-15 min")
	require.NoError(t, err)
	_, err = svc.AddZone(ctx, id, "Bussana", "4.50", "20-30 min")
	require.NoError(t, err)

	cheap, err = svc.CheapestActiveZone(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, cheap)
	assert.Equal(t, budget.ID, cheap.ID)

	// Disabling the cheapest zone promotes the next one.
	_, err = svc.ToggleZoneActive(ctx, id, budget.ID)
	require.NoError(t, err)
	cheap, err = svc.CheapestActiveZone(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, cheap)
	assert.Equal(t, money.Cents(350), cheap.FeeCents)
}

func TestToggleOperatingModeRollsBack(t *testing.T) {
	store := newFakeStore()
	id := snowflake.ID(1008)
	seedRestaurant(store, id)

	svc := newTestService(t, store, clock.NewFakeClock(time.Now()))
	ctx := context.Background()

	store.modeErr = errors.New("connection reset")
	value, err := svc.ToggleOperatingMode(ctx, id)
	require.Error(t, err)
	assert.True(t, value, "flag must revert to the confirmed value")

	snap, err := svc.Load(ctx, id)
	require.NoError(t, err)
	assert.True(t, snap.DeliveryEnabled)

	// Once the store recovers the toggle commits.
	store.modeErr = nil
	value, err = svc.ToggleOperatingMode(ctx, id)
	require.NoError(t, err)
	assert.False(t, value)
	assert.Equal(t, []bool{false}, store.modeUpdates)
}

func TestSetPricesAndSaveAll(t *testing.T) {
	store := newFakeStore()
	id := snowflake.ID(1009)
	seedRestaurant(store, id)

	clk := clock.NewFakeClock(time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC))
	svc := newTestService(t, store, clk)
	ctx := context.Background()

	_, err := svc.AddZone(ctx, id, "Sanremo", "3,50", "15-20 min")
	require.NoError(t, err)
	require.NoError(t, svc.SetSizePrice(ctx, id, "medium", "11,00"))
	require.NoError(t, svc.SetExtraPrice(ctx, id, domain.ExtraSauce, "0.40"))
	require.NoError(t, svc.SetFloorDelivery(ctx, id, false, ""))
	require.NoError(t, svc.SetRiderTip(ctx, id, "1.50"))

	assert.ErrorIs(t, svc.SetSizePrice(ctx, id, "medium", "x"), domain.ErrInvalidPrice)
	assert.ErrorIs(t, svc.SetSizePrice(ctx, id, "jumbo", "9.00"), domain.ErrUnknownSize)
	assert.ErrorIs(t, svc.SetExtraPrice(ctx, id, "cheese", "0.50"), domain.ErrUnknownExtra)

	require.NoError(t, svc.SaveAll(ctx, id))
	require.Equal(t, 1, store.saved)

	rec := store.records[id]
	require.Len(t, rec.Settings.DeliveryZones, 1)
	assert.Equal(t, money.Cents(350), rec.Settings.DeliveryZones[0].FeeCents)
	assert.Equal(t, money.Cents(1100), rec.Settings.SizeTiers[1].PriceCents)
	assert.Equal(t, money.Cents(40), rec.Settings.ExtraPrices.SauceCents)
	assert.False(t, rec.Settings.FloorDelivery.Enabled)
	assert.Equal(t, money.Cents(150), *rec.Settings.RiderTipCents)
	require.NotNil(t, rec.Settings.LastUpdated)
	assert.Equal(t, clk.Now(), *rec.Settings.LastUpdated)
}

func TestUpdateProfilePersistsImmediately(t *testing.T) {
	store := newFakeStore()
	id := snowflake.ID(1010)
	seedRestaurant(store, id)

	svc := newTestService(t, store, clock.NewFakeClock(time.Now()))
	ctx := context.Background()

	name := "Pokenjoy Sanremo"
	phone := "393000000000"
	snap, err := svc.UpdateProfile(ctx, id, domain.ProfilePatch{Name: &name, WhatsappNumber: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Pokenjoy Sanremo", snap.Name)
	assert.Equal(t, 1, store.saved)
	assert.Equal(t, "Pokenjoy Sanremo", store.records[id].Name)
	assert.Equal(t, "393000000000", store.records[id].WhatsappNumber)
}

func TestLoadUnknownRestaurant(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, clock.NewFakeClock(time.Now()))

	_, err := svc.Load(context.Background(), snowflake.ID(99))
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
}
