package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	restaurantdomain "github.com/ordinlampo/ordinlampo/internal/restaurant/domain"
)

// GetConfig returns the full editable snapshot for the dashboard.
func (s *Server) GetConfig(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	snap, err := s.restaurantSvc.Load(c.Request.Context(), rid)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// PublicConfig returns the subset the ordering frontend needs: zones,
// prices and the operating mode, without plan or billing fields.
func (s *Server) PublicConfig(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	snap, err := s.restaurantSvc.Load(c.Request.Context(), rid)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	zones := make([]restaurantdomain.DeliveryZone, 0, len(snap.Zones))
	for _, z := range snap.Zones {
		if z.Active {
			zones = append(zones, z)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"name":             snap.Name,
		"whatsapp_number":  snap.WhatsappNumber,
		"delivery_enabled": snap.DeliveryEnabled,
		"zones":            zones,
		"sizes":            snap.Sizes,
		"extras":           snap.Extras,
		"floor_delivery":   snap.FloorDelivery,
		"rider_tip_cents":  snap.RiderTipCents,
	})
}

// SaveConfig persists the whole working snapshot.
func (s *Server) SaveConfig(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.restaurantSvc.SaveAll(c.Request.Context(), rid); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// UpdateProfile patches the restaurant name and contact number.
func (s *Server) UpdateProfile(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var patch restaurantdomain.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	snap, err := s.restaurantSvc.UpdateProfile(c.Request.Context(), rid, patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ToggleOperatingMode flips delivery availability. The response reports the
// settled value, which equals the previous one when the write failed.
func (s *Server) ToggleOperatingMode(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	enabled, err := s.restaurantSvc.ToggleOperatingMode(c.Request.Context(), rid)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"delivery_enabled": enabled})
}
