package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/ordinlampo/ordinlampo/internal/money"
)

// Service is the configuration editor. Mutations apply to an in-memory
// snapshot immediately; SaveAll persists the whole document. The operating
// mode toggle is the exception: it persists eagerly and rolls back on
// failure.
type Service interface {
	// Load hydrates (or returns) the snapshot for a restaurant.
	Load(ctx context.Context, restaurantID snowflake.ID) (Snapshot, error)

	AddZone(ctx context.Context, restaurantID snowflake.ID, name, feeRaw, estimatedTime string) (DeliveryZone, error)
	UpdateZone(ctx context.Context, restaurantID snowflake.ID, zoneID string, patch ZonePatch) (DeliveryZone, error)
	DeleteZone(ctx context.Context, restaurantID snowflake.ID, zoneID string, confirmed bool) error
	ToggleZoneActive(ctx context.Context, restaurantID snowflake.ID, zoneID string) (DeliveryZone, error)

	// CheapestActiveZone returns the lowest-fee active zone, or nil when
	// no zone is active.
	CheapestActiveZone(ctx context.Context, restaurantID snowflake.ID) (*DeliveryZone, error)

	SetSizePrice(ctx context.Context, restaurantID snowflake.ID, sizeID, raw string) error
	SetExtraPrice(ctx context.Context, restaurantID snowflake.ID, category ExtraCategory, raw string) error
	SetFloorDelivery(ctx context.Context, restaurantID snowflake.ID, enabled bool, feeRaw string) error
	SetRiderTip(ctx context.Context, restaurantID snowflake.ID, raw string) error

	UpdateProfile(ctx context.Context, restaurantID snowflake.ID, patch ProfilePatch) (Snapshot, error)

	// ToggleOperatingMode flips the delivery flag optimistically, persists
	// it, and reverts the snapshot when persistence fails. The returned
	// bool is the flag value after the call settles.
	ToggleOperatingMode(ctx context.Context, restaurantID snowflake.ID) (bool, error)

	// SaveAll persists the current snapshot as one settings document.
	SaveAll(ctx context.Context, restaurantID snowflake.ID) error

	// RiderTip exposes the configured tip for order totals.
	RiderTip(ctx context.Context, restaurantID snowflake.ID) (money.Cents, error)
}
