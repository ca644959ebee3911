package domain

import "errors"

var (
	ErrUnknownAttestation = errors.New("unknown attestation")
	ErrSignatureTooShort  = errors.New("signatory name too short")
	ErrGateNotReady       = errors.New("attestations incomplete")
	ErrSubmitInFlight     = errors.New("checkout already submitting")
	ErrProviderFailed     = errors.New("checkout provider failed")
	ErrNoProvider         = errors.New("checkout provider not configured")
)
