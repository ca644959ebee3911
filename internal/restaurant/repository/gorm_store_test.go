package repository

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/ordinlampo/ordinlampo/internal/money"
	"github.com/ordinlampo/ordinlampo/internal/restaurant/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (domain.Store, *snowflake.Node, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Restaurant{}, &domain.OperatingMode{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewGormStore(db, node), node, db
}

func TestCreateAndLoadRoundTrip(t *testing.T) {
	store, node, _ := newTestStore(t)
	ctx := context.Background()

	rid := node.Generate()
	tip := money.Cents(150)
	require.NoError(t, store.Create(ctx, domain.Record{
		ID:              rid,
		Name:            "Pokenjoy",
		WhatsappNumber:  "393896382394",
		DeliveryEnabled: true,
		PlanCode:        "starter",
		Settings: domain.SettingsDocument{
			DeliveryZones: []domain.DeliveryZone{
				{ID: "sanremo", Name: "Sanremo", FeeCents: 350, Active: true},
			},
			RiderTipCents: &tip,
		},
	}))

	rec, err := store.Load(ctx, rid)
	require.NoError(t, err)
	assert.Equal(t, "Pokenjoy", rec.Name)
	assert.True(t, rec.DeliveryEnabled)
	require.Len(t, rec.Settings.DeliveryZones, 1)
	assert.Equal(t, "sanremo", rec.Settings.DeliveryZones[0].ID)
	require.NotNil(t, rec.Settings.RiderTipCents)
	assert.Equal(t, money.Cents(150), *rec.Settings.RiderTipCents)
}

func TestLoadUnknownRestaurant(t *testing.T) {
	store, node, _ := newTestStore(t)

	_, err := store.Load(context.Background(), node.Generate())
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
}

func TestSaveSettingsUpdatesDocument(t *testing.T) {
	store, node, _ := newTestStore(t)
	ctx := context.Background()

	rid := node.Generate()
	require.NoError(t, store.Create(ctx, domain.Record{ID: rid, Name: "Pokenjoy"}))

	tip := money.Cents(200)
	require.NoError(t, store.SaveSettings(ctx, rid, domain.Record{
		Name:           "Pokenjoy Sanremo",
		WhatsappNumber: "393333333333",
		Settings:       domain.SettingsDocument{RiderTipCents: &tip},
	}))

	rec, err := store.Load(ctx, rid)
	require.NoError(t, err)
	assert.Equal(t, "Pokenjoy Sanremo", rec.Name)
	require.NotNil(t, rec.Settings.RiderTipCents)
	assert.Equal(t, money.Cents(200), *rec.Settings.RiderTipCents)

	err = store.SaveSettings(ctx, node.Generate(), domain.Record{})
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
}

func TestUpdateOperatingModeWritesMirrorRow(t *testing.T) {
	store, node, db := newTestStore(t)
	ctx := context.Background()

	rid := node.Generate()
	require.NoError(t, store.Create(ctx, domain.Record{
		ID:              rid,
		Name:            "Pokenjoy",
		DeliveryEnabled: true,
	}))

	require.NoError(t, store.UpdateOperatingMode(ctx, rid, false))

	rec, err := store.Load(ctx, rid)
	require.NoError(t, err)
	assert.False(t, rec.DeliveryEnabled)

	var mirror domain.OperatingMode
	require.NoError(t, db.Where("restaurant_id = ?", rid).First(&mirror).Error)
	assert.False(t, mirror.DeliveryEnabled)

	// Toggling back upserts the same row rather than inserting a second one.
	require.NoError(t, store.UpdateOperatingMode(ctx, rid, true))
	var rows int64
	require.NoError(t, db.Model(&domain.OperatingMode{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	err = store.UpdateOperatingMode(ctx, node.Generate(), true)
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
}
