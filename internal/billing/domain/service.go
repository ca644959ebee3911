package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Service computes billing windows and weekly usage.
type Service interface {
	// CurrentWindow returns the billing week containing the current time.
	CurrentWindow() Window

	// WindowAt returns the billing week containing t.
	WindowAt(t time.Time) Window

	// WeeklyUsage accrues the current window's usage for a restaurant
	// against its active plan.
	WeeklyUsage(ctx context.Context, restaurantID snowflake.ID) (Usage, error)
}
