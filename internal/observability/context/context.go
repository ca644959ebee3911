// Package context carries correlation identifiers across request boundaries.
package context

import "context"

type requestIDKey struct{}

type restaurantIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WithRestaurantID(ctx context.Context, restaurantID string) context.Context {
	return context.WithValue(ctx, restaurantIDKey{}, restaurantID)
}

func RestaurantIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(restaurantIDKey{}).(string)
	return id
}
