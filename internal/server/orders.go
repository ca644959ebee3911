package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/ordinlampo/ordinlampo/internal/order/domain"
)

// IngestOrder accepts an order from the ordering frontend. A replayed
// reference answers 200 with accepted=false rather than an error; the
// frontend retries submissions and must not see its own retry fail.
func (s *Server) IngestOrder(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var in orderdomain.Incoming
	if err := c.ShouldBindJSON(&in); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.orderSvc.Ingest(c.Request.Context(), rid, in)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !result.Accepted {
		c.JSON(http.StatusOK, gin.H{"accepted": false})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"accepted": true, "order": result.Order})
}

func (s *Server) ListOrders(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var since time.Time
	if raw := strings.TrimSpace(c.Query("since")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, newValidationError("since", "invalid_since", "invalid value"))
			return
		}
		since = parsed
	}
	limit := 50
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid value"))
			return
		}
		limit = parsed
	}

	orders, err := s.orderSvc.List(c.Request.Context(), rid, since, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (s *Server) Notifications(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	listener := s.orderListen.For(rid.String())
	c.JSON(http.StatusOK, gin.H{
		"notifications": listener.Notifications(),
		"unread":        listener.UnreadCount(),
	})
}

func (s *Server) MarkNotificationsRead(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	s.orderListen.For(rid.String()).MarkRead()
	c.JSON(http.StatusOK, gin.H{"unread": 0})
}

func (s *Server) ActiveAlert(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	alert := s.orderListen.For(rid.String()).ActiveAlert()
	if alert == nil {
		c.JSON(http.StatusOK, gin.H{"alert": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"alert": alert})
}

func (s *Server) DismissAlert(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	s.orderListen.For(rid.String()).DismissAlert()
	c.JSON(http.StatusOK, gin.H{"alert": nil})
}
