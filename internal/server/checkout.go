package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	checkoutdomain "github.com/ordinlampo/ordinlampo/internal/checkout/domain"
)

func (s *Server) CheckoutContract(c *gin.Context) {
	contract, err := s.checkoutSvc.Contract(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contract": contract})
}

func (s *Server) CheckoutGate(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	planCode := strings.TrimSpace(c.Param("plan"))

	gate, err := s.checkoutSvc.Gate(c.Request.Context(), rid, planCode)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gate)
}

type attestRequest struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

func (s *Server) SetAttestation(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	planCode := strings.TrimSpace(c.Param("plan"))

	var req attestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	gate, err := s.checkoutSvc.SetAttestation(c.Request.Context(), rid, planCode,
		checkoutdomain.AttestationKey(req.Key), req.Value)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gate)
}

type signRequest struct {
	Name string `json:"name"`
}

func (s *Server) SetSignature(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	planCode := strings.TrimSpace(c.Param("plan"))

	var req signRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	gate, err := s.checkoutSvc.SetSignature(c.Request.Context(), rid, planCode, req.Name)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gate)
}

// SubmitCheckout mints the checkout session. Provider failures answer with
// the failed gate so the client shows the retry state; attestations are
// preserved server-side.
func (s *Server) SubmitCheckout(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	planCode := strings.TrimSpace(c.Param("plan"))

	gate, err := s.checkoutSvc.Submit(c.Request.Context(), rid, planCode)
	if err != nil {
		if gate.State == checkoutdomain.StateFailed {
			c.JSON(http.StatusBadGateway, gin.H{"gate": gate})
			return
		}
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gate": gate, "redirect_url": gate.RedirectURL})
}
