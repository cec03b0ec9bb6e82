package controllers_fx

import (
	"go.uber.org/fx"
	"streamflix/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewProfileController),
	fx.Provide(controllers.NewMoviesController),
	fx.Provide(controllers.NewPlanController),
	fx.Provide(controllers.NewHealthController))
