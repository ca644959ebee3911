package domain

import "errors"

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrZoneNotFound       = errors.New("delivery zone not found")
	ErrZoneNameRequired   = errors.New("zone name is required")
	ErrZoneEtaRequired    = errors.New("zone estimated time is required")
	ErrDeleteNotConfirmed = errors.New("zone deletion requires confirmation")
	ErrInvalidZoneFee     = errors.New("invalid zone fee")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrUnknownExtra       = errors.New("unknown extra category")
	ErrUnknownSize        = errors.New("unknown size tier")
	ErrNothingToSave      = errors.New("nothing to save")
)
