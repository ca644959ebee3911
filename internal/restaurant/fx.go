package restaurant

import (
	"github.com/ordinlampo/ordinlampo/internal/restaurant/repository"
	"github.com/ordinlampo/ordinlampo/internal/restaurant/service"
	"go.uber.org/fx"
)

// Module wires the restaurant configuration store and editor service.
var Module = fx.Module("restaurant",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
