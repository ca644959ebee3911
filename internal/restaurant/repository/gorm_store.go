package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/ordinlampo/ordinlampo/internal/plan/domain"
	"github.com/ordinlampo/ordinlampo/internal/restaurant/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db   *gorm.DB
	node *snowflake.Node
}

// NewGormStore returns the database-backed restaurant store.
func NewGormStore(db *gorm.DB, node *snowflake.Node) domain.Store {
	return &gormStore{db: db, node: node}
}

func (s *gormStore) Load(ctx context.Context, restaurantID snowflake.ID) (*domain.Record, error) {
	var row domain.Restaurant
	err := s.db.WithContext(ctx).
		Where("id = ?", restaurantID).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrRestaurantNotFound
		}
		return nil, err
	}

	rec := domain.Record{
		ID:                 row.ID,
		Name:               row.Name,
		WhatsappNumber:     row.WhatsappNumber,
		DeliveryEnabled:    row.DeliveryEnabled,
		PlanCode:           row.PlanCode,
		SubscriptionStatus: row.SubscriptionStatus,
	}
	if len(row.Settings) > 0 {
		// A corrupt document is treated as empty rather than failing the
		// load; defaults fill the gaps.
		_ = json.Unmarshal(row.Settings, &rec.Settings)
	}
	return &rec, nil
}

func (s *gormStore) SaveSettings(ctx context.Context, restaurantID snowflake.ID, rec domain.Record) error {
	raw, err := json.Marshal(rec.Settings)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Model(&domain.Restaurant{}).
		Where("id = ?", restaurantID).
		Updates(map[string]any{
			"name":             rec.Name,
			"whatsapp_number":  rec.WhatsappNumber,
			"delivery_enabled": rec.DeliveryEnabled,
			"settings":         datatypes.JSON(raw),
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRestaurantNotFound
	}
	return nil
}

func (s *gormStore) UpdateOperatingMode(ctx context.Context, restaurantID snowflake.ID, deliveryEnabled bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Restaurant{}).
			Where("id = ?", restaurantID).
			Updates(map[string]any{
				"delivery_enabled": deliveryEnabled,
				"updated_at":       time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRestaurantNotFound
		}

		mirror := domain.OperatingMode{
			RestaurantID:    restaurantID,
			DeliveryEnabled: deliveryEnabled,
			UpdatedAt:       time.Now(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "restaurant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"delivery_enabled", "updated_at"}),
		}).Create(&mirror).Error
	})
}

func (s *gormStore) UpdatePlan(ctx context.Context, restaurantID snowflake.ID, planCode string, status plandomain.SubscriptionStatus) error {
	res := s.db.WithContext(ctx).
		Model(&domain.Restaurant{}).
		Where("id = ?", restaurantID).
		Updates(map[string]any{
			"plan_code":           planCode,
			"subscription_status": status,
			"updated_at":          time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRestaurantNotFound
	}
	return nil
}

func (s *gormStore) Create(ctx context.Context, rec domain.Record) error {
	raw, err := json.Marshal(rec.Settings)
	if err != nil {
		return err
	}
	if rec.ID == 0 {
		rec.ID = s.node.Generate()
	}
	row := domain.Restaurant{
		ID:                 rec.ID,
		Name:               rec.Name,
		WhatsappNumber:     rec.WhatsappNumber,
		DeliveryEnabled:    rec.DeliveryEnabled,
		PlanCode:           rec.PlanCode,
		SubscriptionStatus: rec.SubscriptionStatus,
		Settings:           datatypes.JSON(raw),
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
