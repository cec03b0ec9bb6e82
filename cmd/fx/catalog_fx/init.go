package catalog_fx

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"streamflix/internal/config"
	"streamflix/internal/services"
	"streamflix/pkg/metrics"
	"streamflix/pkg/tmdb"
)

var Module = fx.Provide(
	provideTMDBClient, provideCatalogService)

func provideTMDBClient(cfg *config.Config) *tmdb.Client {
	return tmdb.NewClient(tmdb.Config{
		BaseURL:  cfg.TMDBBaseURL,
		APIKey:   cfg.TMDBAPIKey,
		Language: cfg.TMDBLanguage,
		Timeout:  cfg.TMDBTimeout,
	})
}

func provideCatalogService(client *tmdb.Client, m *metrics.Metrics, log *logrus.Entry) services.CatalogServiceInterface {
	return services.NewCatalogService(client, m, log)
}
