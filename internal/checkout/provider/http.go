// Package provider holds the HTTP checkout session minter.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ordinlampo/ordinlampo/internal/checkout/domain"
	"github.com/ordinlampo/ordinlampo/internal/config"
	"go.uber.org/zap"
)

type httpMinter struct {
	endpoint string
	client   *http.Client
	log      *zap.Logger
}

// NewHTTPMinter returns a minter posting to the configured checkout
// endpoint, or nil when none is configured.
func NewHTTPMinter(cfg config.Config, log *zap.Logger) domain.SessionMinter {
	endpoint := strings.TrimSpace(cfg.CheckoutEndpoint)
	if endpoint == "" {
		return nil
	}
	return &httpMinter{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log.Named("checkout.provider"),
	}
}

type mintRequest struct {
	RestaurantID string `json:"restaurant_id"`
	PlanCode     string `json:"plan_code"`
	ReturnURL    string `json:"return_url"`
}

type mintResponse struct {
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
}

func (m *httpMinter) Mint(ctx context.Context, restaurantID snowflake.ID, planCode, returnURL string) (domain.Session, error) {
	body, err := json.Marshal(mintRequest{
		RestaurantID: restaurantID.String(),
		PlanCode:     planCode,
		ReturnURL:    returnURL,
	})
	if err != nil {
		return domain.Session{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return domain.Session{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return domain.Session{}, fmt.Errorf("checkout endpoint returned %d", resp.StatusCode)
	}

	var out mintResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Session{}, err
	}
	if out.RedirectURL == "" {
		return domain.Session{}, fmt.Errorf("checkout endpoint returned no redirect url")
	}
	return domain.Session{ID: out.SessionID, RedirectURL: out.RedirectURL}, nil
}
