// Package restaurantctx carries the authenticated restaurant identity through
// request contexts. Handlers resolve the restaurant once in middleware instead
// of trusting identifiers baked into client payloads.
package restaurantctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type contextKey struct{}

func WithRestaurantID(ctx context.Context, id snowflake.ID) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func RestaurantIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	id, ok := ctx.Value(contextKey{}).(snowflake.ID)
	return id, ok
}
