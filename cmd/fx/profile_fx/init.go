package profile_fx

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"streamflix/internal/config"
	"streamflix/internal/repositories"
	"streamflix/internal/services"
	"streamflix/pkg/metrics"
)

var Module = fx.Provide(
	provideProfileService, provideWatchService)

func provideProfileService(profileRepo repositories.ProfileRepository, cfg *config.Config, log *logrus.Entry) services.ProfileServiceInterface {
	return services.NewProfileService(profileRepo, cfg.MaxProfiles, log)
}

func provideWatchService(
	profileRepo repositories.ProfileRepository,
	watchRepo repositories.WatchStateRepository,
	catalog services.CatalogServiceInterface,
	m *metrics.Metrics,
	log *logrus.Entry,
) services.WatchServiceInterface {
	return services.NewWatchService(profileRepo, watchRepo, catalog, m, log)
}
