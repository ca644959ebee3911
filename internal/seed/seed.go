// Package seed bootstraps the plan catalog and, optionally, a demo
// restaurant so a fresh install is immediately usable.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/ordinlampo/ordinlampo/internal/plan/domain"
	restaurantdomain "github.com/ordinlampo/ordinlampo/internal/restaurant/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	demoRestaurantName     = "Pokenjoy"
	demoRestaurantWhatsapp = "393896382394"
)

// EnsurePlans inserts missing catalog tiers. Existing rows are left alone so
// operator price overrides survive restarts.
func EnsurePlans(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, plan := range plandomain.BuiltinCatalog() {
			var existing plandomain.Plan
			err := tx.Where("code = ?", plan.Code).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			plan.ID = node.Generate()
			plan.CreatedAt = time.Now()
			plan.UpdatedAt = time.Now()
			if err := tx.Create(&plan).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureDemoRestaurant seeds one restaurant on the starter plan with the
// default configuration document.
func EnsureDemoRestaurant(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing restaurantdomain.Restaurant
		err := tx.Where("name = ?", demoRestaurantName).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		id := node.Generate()
		snap := restaurantdomain.DefaultSnapshot(id)
		doc := snap.Document(time.Now())
		raw, err := json.Marshal(doc)
		if err != nil {
			return err
		}

		row := restaurantdomain.Restaurant{
			ID:                 id,
			Name:               demoRestaurantName,
			WhatsappNumber:     demoRestaurantWhatsapp,
			DeliveryEnabled:    true,
			PlanCode:           "starter",
			SubscriptionStatus: plandomain.SubscriptionStatusActive,
			Settings:           datatypes.JSON(raw),
			CreatedAt:          time.Now(),
			UpdatedAt:          time.Now(),
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Create(&restaurantdomain.OperatingMode{
			RestaurantID:    id,
			DeliveryEnabled: true,
			UpdatedAt:       time.Now(),
		}).Error
	})
}
