package domain

// AttestationKey names one of the confirmations required before checkout.
type AttestationKey string

const (
	AttestTerms    AttestationKey = "terms"
	AttestFees     AttestationKey = "fees"
	AttestContract AttestationKey = "contract"
)

// RequiredAttestations lists every confirmation the gate needs, in display
// order.
var RequiredAttestations = []AttestationKey{AttestTerms, AttestFees, AttestContract}

// Known reports whether the key is one of the required attestations.
func (k AttestationKey) Known() bool {
	for _, key := range RequiredAttestations {
		if key == k {
			return true
		}
	}
	return false
}

// MinSignatureLength is the shortest signatory name the gate accepts.
const MinSignatureLength = 3

// GateState describes how far the upgrade gate has progressed.
type GateState string

const (
	// StateUnacknowledged means no attestation has been given yet.
	StateUnacknowledged GateState = "unacknowledged"
	// StatePartial means some but not all attestations are given.
	StatePartial GateState = "partial"
	// StateReady means every attestation is given, the signatory name is
	// set, and Submit may run.
	StateReady GateState = "ready"
	// StateSubmitting means a checkout session is being minted.
	StateSubmitting GateState = "submitting"
	// StateRedirected means the session was minted and the caller holds
	// the redirect URL.
	StateRedirected GateState = "redirected"
	// StateFailed means minting failed; attestations are preserved so the
	// user retries without re-confirming.
	StateFailed GateState = "failed"
)

// Gate is the view of one restaurant's upgrade gate for a target plan.
type Gate struct {
	PlanCode     string                  `json:"plan_code"`
	State        GateState               `json:"state"`
	Attestations map[AttestationKey]bool `json:"attestations"`
	Signature    string                  `json:"signature,omitempty"`
	RedirectURL  string                  `json:"redirect_url,omitempty"`
	LastError    string                  `json:"last_error,omitempty"`
}

// Session is a minted checkout session.
type Session struct {
	ID          string `json:"id"`
	RedirectURL string `json:"redirect_url"`
}
