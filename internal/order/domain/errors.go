package domain

import "errors"

var (
	ErrDuplicateOrder   = errors.New("duplicate order")
	ErrInvalidOrderType = errors.New("invalid order type")
	ErrMissingReference = errors.New("order reference is required")
	ErrOrderNotFound    = errors.New("order not found")
)
