package checkout

import (
	"github.com/ordinlampo/ordinlampo/internal/checkout/provider"
	"github.com/ordinlampo/ordinlampo/internal/checkout/service"
	"go.uber.org/fx"
)

// Module wires the checkout provider and the attestation gate service.
var Module = fx.Module("checkout",
	fx.Provide(
		provider.NewHTTPMinter,
		service.NewService,
	),
)
