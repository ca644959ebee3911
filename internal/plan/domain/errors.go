package domain

import "errors"

var (
	ErrPlanNotFound      = errors.New("plan_not_found")
	ErrPlanInactive      = errors.New("plan_inactive")
	ErrInvalidPlanCode   = errors.New("invalid_plan_code")
	ErrInvalidRestaurant = errors.New("invalid_restaurant")
)
