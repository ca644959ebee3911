package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	obscontext "github.com/ordinlampo/ordinlampo/internal/observability/context"
	"github.com/ordinlampo/ordinlampo/internal/restaurantctx"
)

const restaurantHeader = "X-Restaurant-Id"

// RestaurantContext resolves the acting restaurant from the request header
// and stores it on the request context. Handlers never trust restaurant
// identifiers inside payloads.
func (s *Server) RestaurantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(restaurantHeader))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		id, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := restaurantctx.WithRestaurantID(c.Request.Context(), id)
		ctx = obscontext.WithRestaurantID(ctx, id.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// restaurantID reads the identity the middleware stored.
func restaurantID(c *gin.Context) (snowflake.ID, bool) {
	return restaurantctx.RestaurantIDFromContext(c.Request.Context())
}
