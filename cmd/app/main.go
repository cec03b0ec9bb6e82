package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"streamflix/cmd/fx/account_fx"
	"streamflix/cmd/fx/catalog_fx"
	"streamflix/cmd/fx/config_fx"
	"streamflix/cmd/fx/controllers_fx"
	"streamflix/cmd/fx/db_fx"
	"streamflix/cmd/fx/logger_fx"
	"streamflix/cmd/fx/metrics_fx"
	"streamflix/cmd/fx/plan_fx"
	"streamflix/cmd/fx/profile_fx"
	"streamflix/internal/api"
	"streamflix/internal/api/controllers"
	"streamflix/internal/config"
	"streamflix/pkg/metrics"
	"streamflix/pkg/utils"
)

func main() {
	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		metrics_fx.Module,
		db_fx.Module,
		account_fx.Module,
		catalog_fx.Module,
		profile_fx.Module,
		plan_fx.Module,
		controllers_fx.Module,

		fx.Invoke(InitSentry),
		fx.Invoke(StartServer),
		fx.Provide(ProvideRouter),
	)

	app.Run()
}

func InitSentry(lc fx.Lifecycle, cfg *config.Config, log *logrus.Entry) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
		return err
	}
	log.Info("sentry enabled")
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		},
	})
	return nil
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, log *logrus.Entry) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				log.WithField("addr", srv.Addr).Info("starting HTTP server")
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.WithError(err).Error("HTTP server stopped")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	log *logrus.Entry,
	m *metrics.Metrics,
	tokens *utils.TokenManager,
	accountController *controllers.AccountController,
	profileController *controllers.ProfileController,
	moviesController *controllers.MoviesController,
	planController *controllers.PlanController,
	healthController *controllers.HealthController) *gin.Engine {

	gin.SetMode(gin.ReleaseMode)

	return api.NewRouter(api.RouterOptions{
		Log:           log,
		Metrics:       m,
		Tokens:        tokens,
		CORSOrigins:   cfg.CORSOrigins,
		AuthRateLimit: cfg.AuthRateLimit,
	}, api.Controllers{
		Account: accountController,
		Profile: profileController,
		Movies:  moviesController,
		Plan:    planController,
		Health:  healthController,
	})
}
