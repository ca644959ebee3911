package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// WeeklyBilling returns the current window and the usage accrued in it.
func (s *Server) WeeklyBilling(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	usage, err := s.billingSvc.WeeklyUsage(c.Request.Context(), rid)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}
