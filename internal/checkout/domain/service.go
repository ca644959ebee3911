package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// SessionMinter creates a checkout session at the payment provider.
type SessionMinter interface {
	Mint(ctx context.Context, restaurantID snowflake.ID, planCode, returnURL string) (Session, error)
}

// Service runs the upgrade gate: collect attestations, then mint a session.
type Service interface {
	// Gate returns the gate for a restaurant and target plan, creating it
	// unacknowledged on first access.
	Gate(ctx context.Context, restaurantID snowflake.ID, planCode string) (Gate, error)

	// SetAttestation records one confirmation. The gate moves between
	// unacknowledged, partial and ready as attestations flip.
	SetAttestation(ctx context.Context, restaurantID snowflake.ID, planCode string, key AttestationKey, value bool) (Gate, error)

	// SetSignature records the typed signatory name. A non-empty name
	// shorter than MinSignatureLength fails with ErrSignatureTooShort; an
	// empty name withdraws the signature.
	SetSignature(ctx context.Context, restaurantID snowflake.ID, planCode, name string) (Gate, error)

	// Submit mints the checkout session. It fails with ErrGateNotReady
	// until every attestation is given and the signature is set; on
	// provider failure the attestations and signature survive so the user
	// retries without re-entering them.
	Submit(ctx context.Context, restaurantID snowflake.ID, planCode string) (Gate, error)

	// Contract returns the legal text shown behind the contract
	// attestation.
	Contract(ctx context.Context) (string, error)
}
