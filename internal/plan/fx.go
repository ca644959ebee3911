package plan

import (
	"github.com/ordinlampo/ordinlampo/internal/plan/repository"
	"github.com/ordinlampo/ordinlampo/internal/plan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("plan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
