package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type ChangePlanRequest struct {
	RestaurantID snowflake.ID
	PlanCode     string
	Status       SubscriptionStatus
}

type Service interface {
	List(ctx context.Context) ([]Response, error)
	GetByCode(ctx context.Context, code string) (Response, error)
	// ActiveForRestaurant returns the single plan the restaurant is
	// subscribed to.
	ActiveForRestaurant(ctx context.Context, restaurantID snowflake.ID) (Response, error)
	ChangePlan(ctx context.Context, req ChangePlanRequest) (Response, error)
}
