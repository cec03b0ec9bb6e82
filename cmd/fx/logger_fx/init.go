package logger_fx

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"streamflix/internal/config"
	"streamflix/pkg/logging"
)

const serviceName = "streamflix"

var Module = fx.Provide(provideLogger)

func provideLogger(cfg *config.Config) *logrus.Entry {
	return logging.NewLogger(serviceName, cfg.LogLevel, cfg.LogFormat)
}
