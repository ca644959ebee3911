package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ordinlampo/ordinlampo/internal/money"
)

// Repository persists orders and answers the usage queries billing needs.
type Repository interface {
	Insert(ctx context.Context, order *Order) error
	List(ctx context.Context, restaurantID snowflake.ID, since time.Time, limit int) ([]Order, error)

	// CountInWindow counts orders created in [start, end).
	CountInWindow(ctx context.Context, restaurantID snowflake.ID, start, end time.Time) (int64, error)
	// SumInWindow totals order amounts created in [start, end).
	SumInWindow(ctx context.Context, restaurantID snowflake.ID, start, end time.Time) (money.Cents, error)
}
