package billing

import (
	"github.com/ordinlampo/ordinlampo/internal/billing/service"
	"go.uber.org/fx"
)

// Module wires the billing window and usage service.
var Module = fx.Module("billing",
	fx.Provide(service.NewService),
)
