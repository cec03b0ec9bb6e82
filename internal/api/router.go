package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"streamflix/internal/api/controllers"
	"streamflix/pkg/metrics"
	"streamflix/pkg/middleware"
	"streamflix/pkg/utils"
)

type Controllers struct {
	Account *controllers.AccountController
	Profile *controllers.ProfileController
	Movies  *controllers.MoviesController
	Plan    *controllers.PlanController
	Health  *controllers.HealthController
}

type RouterOptions struct {
	Log           *logrus.Entry
	Metrics       *metrics.Metrics
	Tokens        *utils.TokenManager
	CORSOrigins   []string
	AuthRateLimit int // requests per minute per IP on /auth
}

func NewRouter(opts RouterOptions, ctrl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(opts.Log))
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics(opts.Metrics))
	r.Use(middleware.CORSMiddleware(opts.CORSOrigins))

	RegisterRoutes(r, opts, ctrl)
	return r
}

func RegisterRoutes(r *gin.Engine, opts RouterOptions, ctrl Controllers) {
	auth := middleware.JWTAuthMiddleware(opts.Tokens)

	r.GET("/healthz", ctrl.Health.Healthz)
	r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimit(middleware.NewIPRateLimiter(opts.AuthRateLimit, time.Minute, opts.AuthRateLimit, 10*time.Minute)))
	authGroup.POST("/signup", ctrl.Account.Signup)
	authGroup.POST("/login", ctrl.Account.Login)
	authGroup.GET("/me", auth, ctrl.Account.Me)

	r.GET("/plans", ctrl.Plan.ListPlans)

	profiles := r.Group("/profiles", auth)
	profiles.GET("", ctrl.Profile.ListProfiles)
	profiles.POST("", ctrl.Profile.CreateProfile)
	profiles.GET("/limits", ctrl.Profile.Limits)
	profiles.GET("/:id", ctrl.Profile.GetProfile)
	profiles.PUT("/:id", ctrl.Profile.UpdateProfile)
	profiles.DELETE("/:id", ctrl.Profile.DeleteProfile)

	profiles.POST("/:id/watchlist", ctrl.Profile.AddToWatchlist)
	profiles.GET("/:id/watchlist", ctrl.Profile.GetWatchlist)
	profiles.DELETE("/:id/watchlist/:contentItemId", ctrl.Profile.RemoveFromWatchlist)

	profiles.POST("/:id/watch-history", ctrl.Profile.UpdateWatchHistory)
	profiles.GET("/:id/watch-history", ctrl.Profile.GetWatchHistory)
	profiles.GET("/:id/continue-watching", ctrl.Profile.GetContinueWatching)

	movies := r.Group("/movies")
	movies.GET("/trending", ctrl.Movies.Trending)
	movies.GET("/popular", ctrl.Movies.Popular)
	movies.GET("/genre/:genreId", ctrl.Movies.ByGenre)
	movies.GET("/:movieId", ctrl.Movies.ByID)
}
