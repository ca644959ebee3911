package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, db *gorm.DB) ([]Plan, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Plan, error)
	// ActivePlanForRestaurant resolves the plan currently assigned on the
	// restaurant row.
	ActivePlanForRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID) (*Plan, error)
	AssignToRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, code string, status SubscriptionStatus) error
}
