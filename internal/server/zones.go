package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	restaurantdomain "github.com/ordinlampo/ordinlampo/internal/restaurant/domain"
)

type addZoneRequest struct {
	Name          string `json:"name"`
	Fee           string `json:"fee"`
	EstimatedTime string `json:"estimated_time"`
}

func (s *Server) AddZone(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req addZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	zone, err := s.restaurantSvc.AddZone(c.Request.Context(), rid, req.Name, req.Fee, req.EstimatedTime)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, zone)
}

func (s *Server) UpdateZone(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	zoneID := strings.TrimSpace(c.Param("id"))
	if zoneID == "" {
		AbortWithError(c, invalidRequestError())
		return
	}

	var patch restaurantdomain.ZonePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	zone, err := s.restaurantSvc.UpdateZone(c.Request.Context(), rid, zoneID, patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, zone)
}

func (s *Server) DeleteZone(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	zoneID := strings.TrimSpace(c.Param("id"))
	if zoneID == "" {
		AbortWithError(c, invalidRequestError())
		return
	}

	confirmed := c.Query("confirm") == "true"
	if err := s.restaurantSvc.DeleteZone(c.Request.Context(), rid, zoneID, confirmed); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) ToggleZone(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	zoneID := strings.TrimSpace(c.Param("id"))
	if zoneID == "" {
		AbortWithError(c, invalidRequestError())
		return
	}

	zone, err := s.restaurantSvc.ToggleZoneActive(c.Request.Context(), rid, zoneID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, zone)
}

// CheapestZone answers the "delivery from" teaser on the ordering page.
func (s *Server) CheapestZone(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	zone, err := s.restaurantSvc.CheapestActiveZone(c.Request.Context(), rid)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if zone == nil {
		c.JSON(http.StatusOK, gin.H{"zone": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"zone": zone})
}
