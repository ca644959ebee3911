package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	restaurantdomain "github.com/ordinlampo/ordinlampo/internal/restaurant/domain"
)

type priceRequest struct {
	Price string `json:"price"`
}

func (s *Server) SetSizePrice(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	sizeID := strings.TrimSpace(c.Param("id"))
	if sizeID == "" {
		AbortWithError(c, invalidRequestError())
		return
	}

	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.restaurantSvc.SetSizePrice(c.Request.Context(), rid, sizeID, req.Price); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (s *Server) SetExtraPrice(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	category := restaurantdomain.ExtraCategory(strings.TrimSpace(c.Param("category")))

	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.restaurantSvc.SetExtraPrice(c.Request.Context(), rid, category, req.Price); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

type floorDeliveryRequest struct {
	Enabled bool   `json:"enabled"`
	Fee     string `json:"fee"`
}

func (s *Server) SetFloorDelivery(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req floorDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.restaurantSvc.SetFloorDelivery(c.Request.Context(), rid, req.Enabled, req.Fee); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (s *Server) SetRiderTip(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.restaurantSvc.SetRiderTip(c.Request.Context(), rid, req.Price); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
