package plan_fx

import (
	"go.uber.org/fx"
	"streamflix/internal/services"
)

var Module = fx.Provide(services.NewPlanService)
