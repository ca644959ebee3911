package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health runs the connectivity probe and reports per-dependency status.
func (s *Server) Health(c *gin.Context) {
	report := s.probe.Check(c.Request.Context())
	status := http.StatusOK
	if !report.Healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
