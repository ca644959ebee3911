package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/ordinlampo/ordinlampo/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo plandomain.Repository
}

type ServiceParam struct {
	fx.In

	DB   *gorm.DB `optional:"true"`
	Log  *zap.Logger
	Repo plandomain.Repository
}

func NewService(p ServiceParam) plandomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("plan.service"),
		repo: p.Repo,
	}
}

// List implements domain.Service.
func (s *Service) List(ctx context.Context) ([]plandomain.Response, error) {
	plans, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]plandomain.Response, 0, len(plans))
	for _, plan := range plans {
		out = append(out, plan.ToResponse())
	}
	return out, nil
}

// GetByCode implements domain.Service.
func (s *Service) GetByCode(ctx context.Context, code string) (plandomain.Response, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return plandomain.Response{}, plandomain.ErrInvalidPlanCode
	}
	plan, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return plandomain.Response{}, err
	}
	if plan == nil {
		return plandomain.Response{}, plandomain.ErrPlanNotFound
	}
	return plan.ToResponse(), nil
}

// ActiveForRestaurant implements domain.Service.
func (s *Service) ActiveForRestaurant(ctx context.Context, restaurantID snowflake.ID) (plandomain.Response, error) {
	if restaurantID == 0 {
		return plandomain.Response{}, plandomain.ErrInvalidRestaurant
	}
	plan, err := s.repo.ActivePlanForRestaurant(ctx, s.db, restaurantID)
	if err != nil {
		return plandomain.Response{}, err
	}
	if plan == nil {
		return plandomain.Response{}, plandomain.ErrPlanNotFound
	}
	return plan.ToResponse(), nil
}

// ChangePlan implements domain.Service. The assignment keeps the single
// plan-per-restaurant invariant: the plan lives on the restaurant row, so a
// change replaces the previous tier atomically.
func (s *Service) ChangePlan(ctx context.Context, req plandomain.ChangePlanRequest) (plandomain.Response, error) {
	if req.RestaurantID == 0 {
		return plandomain.Response{}, plandomain.ErrInvalidRestaurant
	}
	code := strings.TrimSpace(req.PlanCode)
	if code == "" {
		return plandomain.Response{}, plandomain.ErrInvalidPlanCode
	}

	plan, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return plandomain.Response{}, err
	}
	if plan == nil {
		return plandomain.Response{}, plandomain.ErrPlanNotFound
	}
	if !plan.Active {
		return plandomain.Response{}, plandomain.ErrPlanInactive
	}

	status := req.Status
	if status == "" {
		status = plandomain.SubscriptionStatusActive
	}

	if err := s.repo.AssignToRestaurant(ctx, s.db, req.RestaurantID, plan.Code, status); err != nil {
		return plandomain.Response{}, err
	}

	s.log.Info("plan changed",
		zap.String("restaurant_id", req.RestaurantID.String()),
		zap.String("plan_code", plan.Code),
	)

	return plan.ToResponse(), nil
}
