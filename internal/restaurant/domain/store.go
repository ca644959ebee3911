package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/ordinlampo/ordinlampo/internal/plan/domain"
)

// Store is the persistence port for restaurant configuration. Two
// implementations exist: a gorm-backed one for normal operation and a
// file-backed one for single-tenant installs without a database.
type Store interface {
	// Load returns the restaurant row with its decoded settings document.
	// It returns ErrRestaurantNotFound when the restaurant does not exist.
	Load(ctx context.Context, restaurantID snowflake.ID) (*Record, error)

	// SaveSettings writes the full settings document and the profile
	// columns in one round trip.
	SaveSettings(ctx context.Context, restaurantID snowflake.ID, rec Record) error

	// UpdateOperatingMode persists only the delivery flag, on the primary
	// row and on the mirrored settings row.
	UpdateOperatingMode(ctx context.Context, restaurantID snowflake.ID, deliveryEnabled bool) error

	// UpdatePlan persists the restaurant's plan assignment and
	// subscription status.
	UpdatePlan(ctx context.Context, restaurantID snowflake.ID, planCode string, status plandomain.SubscriptionStatus) error

	// Create inserts a new restaurant row.
	Create(ctx context.Context, rec Record) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
