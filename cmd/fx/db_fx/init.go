package db_fx

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"streamflix/internal/api/controllers"
	"streamflix/internal/config"
	"streamflix/internal/infra"
	"streamflix/internal/repositories"
	"streamflix/internal/repositories/memory"
)

var Module = fx.Provide(provideStorage)

type Storage struct {
	fx.Out

	Users      repositories.UserRepository
	Plans      repositories.IPlanRepository
	Profiles   repositories.ProfileRepository
	WatchState repositories.WatchStateRepository
	Ping       controllers.Pinger
}

func provideStorage(lc fx.Lifecycle, cfg *config.Config, log *logrus.Entry) (Storage, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return Storage{
			Users:      store.Users(),
			Plans:      store.Plans(),
			Profiles:   store.Profiles(),
			WatchState: store.WatchState(),
			Ping:       func(context.Context) error { return nil },
		}, nil

	case config.StorageDriverPostgres:
		db, err := infra.InitPostgresql(cfg.PostgresURL, log)
		if err != nil {
			return Storage{}, err
		}
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return infra.RunMigrations(ctx, db)
			},
			OnStop: func(ctx context.Context) error {
				infra.ClosePostgresql(db, log)
				return nil
			},
		})
		return Storage{
			Users:      repositories.NewUserRepository(db),
			Plans:      repositories.NewPlanRepository(db),
			Profiles:   repositories.NewProfileRepository(db),
			WatchState: repositories.NewWatchStateRepository(db),
			Ping: func(ctx context.Context) error {
				return infra.Ping(ctx, db)
			},
		}, nil
	}
	return Storage{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
