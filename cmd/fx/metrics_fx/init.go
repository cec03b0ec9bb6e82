package metrics_fx

import (
	"go.uber.org/fx"
	"streamflix/pkg/metrics"
)

var Module = fx.Provide(metrics.New)
