package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	plandomain "github.com/ordinlampo/ordinlampo/internal/plan/domain"
)

func (s *Server) ListPlans(c *gin.Context) {
	plans, err := s.planSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (s *Server) ActivePlan(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	plan, err := s.planSvc.ActiveForRestaurant(c.Request.Context(), rid)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

type changePlanRequest struct {
	PlanCode string `json:"plan_code"`
}

func (s *Server) ChangePlan(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req changePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	plan, err := s.planSvc.ChangePlan(c.Request.Context(), plandomain.ChangePlanRequest{
		RestaurantID: rid,
		PlanCode:     req.PlanCode,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
