package account_fx

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"streamflix/internal/config"
	"streamflix/internal/repositories"
	"streamflix/internal/services"
	"streamflix/pkg/metrics"
	"streamflix/pkg/utils"
)

var Module = fx.Provide(
	provideTokenManager, provideAccountService)

func provideTokenManager(cfg *config.Config) *utils.TokenManager {
	return utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
}

func provideAccountService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	planRepo repositories.IPlanRepository,
	tokens *utils.TokenManager,
	m *metrics.Metrics,
	log *logrus.Entry,
) services.AccountServiceInterface {
	return services.NewAccountService(userRepo, profileRepo, planRepo, tokens, m, log)
}
