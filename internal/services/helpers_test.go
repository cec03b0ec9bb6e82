package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"streamflix/internal/models/request_models"
	"streamflix/internal/repositories/memory"
	"streamflix/pkg/metrics"
	"streamflix/pkg/tmdb"
	"streamflix/pkg/utils"
)

func quietLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

type fakeSnapshotter struct {
	mu     sync.Mutex
	movies map[string]*tmdb.Movie
	err    error
	calls  int
}

func (f *fakeSnapshotter) Snapshot(ctx context.Context, contentID string) (*tmdb.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if m, ok := f.movies[contentID]; ok {
		return m, nil
	}
	return nil, utils.NewUnavailableError(OpByID, errors.New("404"))
}

// clock hands out strictly increasing instants.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	store    *memory.Store
	metrics  *metrics.Metrics
	tokens   *utils.TokenManager
	catalog  *fakeSnapshotter
	accounts AccountServiceInterface
	profiles ProfileServiceInterface
	watch    *WatchService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	m := metrics.New()
	log := quietLogger()
	tokens := utils.NewTokenManager("test-secret", 0)
	catalog := &fakeSnapshotter{movies: map[string]*tmdb.Movie{
		"42": {ID: 42, Title: "The Answer", Overview: "Deep thought.", Genres: []tmdb.Genre{{ID: 878, Name: "Science Fiction"}}},
	}}

	watch := NewWatchService(store.Profiles(), store.WatchState(), catalog, m, log).(*WatchService)
	watch.now = newClock().Now

	return &fixture{
		store:    store,
		metrics:  m,
		tokens:   tokens,
		catalog:  catalog,
		accounts: NewAccountService(store.Users(), store.Profiles(), store.Plans(), tokens, m, log),
		profiles: NewProfileService(store.Profiles(), 5, log),
		watch:    watch,
	}
}

// signup registers email and returns the user id and its default profile id.
func (f *fixture) signup(t *testing.T, email string) (uuid.UUID, uuid.UUID) {
	t.Helper()
	resp, err := f.accounts.Signup(context.Background(), request_models.SignUpRequest{Email: email, Password: "secret1"})
	require.NoError(t, err)
	require.Len(t, resp.User.Profiles, 1)
	return uuid.MustParse(resp.User.ID), uuid.MustParse(resp.User.Profiles[0].ID)
}
