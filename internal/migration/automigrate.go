package migration

import (
	orderdomain "github.com/ordinlampo/ordinlampo/internal/order/domain"
	plandomain "github.com/ordinlampo/ordinlampo/internal/plan/domain"
	restaurantdomain "github.com/ordinlampo/ordinlampo/internal/restaurant/domain"
	"gorm.io/gorm"
)

// AutoMigrate creates the schema from the models for non-postgres dialects,
// mainly sqlite in development and tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&restaurantdomain.Restaurant{},
		&restaurantdomain.OperatingMode{},
		&plandomain.Plan{},
		&orderdomain.Order{},
	)
}
