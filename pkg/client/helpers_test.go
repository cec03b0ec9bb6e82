package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"streamflix/internal/api"
	"streamflix/internal/api/controllers"
	"streamflix/internal/models/request_models"
	"streamflix/internal/repositories/memory"
	"streamflix/internal/services"
	"streamflix/pkg/metrics"
	"streamflix/pkg/tmdb"
	"streamflix/pkg/utils"
)

// backend is the real router over a memory store, behind a switch that
// answers 503 for everything while down is set.
type backend struct {
	server *httptest.Server
	down   atomic.Bool
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/movie/42" {
			_, _ = io.WriteString(w, `{"id":42,"title":"The Answer"}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(upstream.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)
	entry := logrus.NewEntry(log)

	store := memory.NewStore()
	m := metrics.New()
	tokens := utils.NewTokenManager("client-secret", time.Hour)
	catalog := services.NewCatalogService(tmdb.NewClient(tmdb.Config{BaseURL: upstream.URL, Timeout: time.Second}), m, entry)

	router := api.NewRouter(api.RouterOptions{
		Log:           entry,
		Metrics:       m,
		Tokens:        tokens,
		CORSOrigins:   []string{"*"},
		AuthRateLimit: 1000,
	}, api.Controllers{
		Account: controllers.NewAccountController(
			services.NewAccountService(store.Users(), store.Profiles(), store.Plans(), tokens, m, entry)),
		Profile: controllers.NewProfileController(
			services.NewProfileService(store.Profiles(), 5, entry),
			services.NewWatchService(store.Profiles(), store.WatchState(), catalog, m, entry)),
		Movies: controllers.NewMoviesController(catalog),
		Plan:   controllers.NewPlanController(services.NewPlanService(store.Plans())),
		Health: controllers.NewHealthController(func(context.Context) error { return nil }),
	})

	b := &backend{}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.down.Load() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"status":"error","code":503,"message":"maintenance"}`)
			return
		}
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(b.server.Close)
	return b
}

// session signs up a fresh account and returns a client holding its token
// along with the default profile id.
func (b *backend) session(t *testing.T, email string) (*Client, string) {
	t.Helper()
	c := NewClient(Config{BaseURL: b.server.URL}, NewMemoryStore())
	auth, err := c.Signup(context.Background(), request_models.SignUpRequest{Email: email, Password: "secret1"})
	require.NoError(t, err)
	require.Len(t, auth.User.Profiles, 1)
	return c, auth.User.Profiles[0].ID
}
