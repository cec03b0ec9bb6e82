package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"streamflix/pkg/metrics"
	"streamflix/pkg/tmdb"
	"streamflix/pkg/utils"
)

const (
	OpTrending = "trending"
	OpPopular  = "popular"
	OpByGenre  = "by-genre"
	OpByID     = "by-id"
)

// MovieCatalog is the upstream surface. *tmdb.Client satisfies it.
type MovieCatalog interface {
	Trending(ctx context.Context) (json.RawMessage, error)
	Popular(ctx context.Context) (json.RawMessage, error)
	ByGenre(ctx context.Context, genreID int) (json.RawMessage, error)
	MovieDetails(ctx context.Context, movieID int) (json.RawMessage, error)
}

type CatalogServiceInterface interface {
	Trending(ctx context.Context) (json.RawMessage, error)
	Popular(ctx context.Context) (json.RawMessage, error)
	ByGenre(ctx context.Context, genreID string) (json.RawMessage, error)
	ByID(ctx context.Context, movieID string) (json.RawMessage, error)
	// Snapshot fetches one movie decoded for a local content snapshot.
	Snapshot(ctx context.Context, contentID string) (*tmdb.Movie, error)
}

type CatalogService struct {
	upstream MovieCatalog
	metrics  *metrics.Metrics
	log      *logrus.Entry
}

func NewCatalogService(upstream MovieCatalog, m *metrics.Metrics, log *logrus.Entry) CatalogServiceInterface {
	return &CatalogService{
		upstream: upstream,
		metrics:  m,
		log:      log.WithField("component", "catalog"),
	}
}

func positiveID(raw string, invalid error) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, invalid
	}
	return id, nil
}

// call runs one upstream request and turns any failure into an
// UnavailableError for op.
func (c *CatalogService) call(ctx context.Context, op string, fn func(context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	start := time.Now()
	body, err := fn(ctx)
	c.metrics.CatalogDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	c.metrics.CatalogRequests.WithLabelValues(op, metrics.Result(err)).Inc()

	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{
			"op":         op,
			"latency_ms": time.Since(start).Milliseconds(),
		}).Warn("catalog upstream failed")
		return nil, utils.NewUnavailableError(op, err)
	}
	return body, nil
}

func (c *CatalogService) Trending(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, OpTrending, c.upstream.Trending)
}

func (c *CatalogService) Popular(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, OpPopular, c.upstream.Popular)
}

func (c *CatalogService) ByGenre(ctx context.Context, genreID string) (json.RawMessage, error) {
	id, err := positiveID(genreID, utils.ErrInvalidGenre)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, OpByGenre, func(ctx context.Context) (json.RawMessage, error) {
		return c.upstream.ByGenre(ctx, id)
	})
}

func (c *CatalogService) ByID(ctx context.Context, movieID string) (json.RawMessage, error) {
	id, err := positiveID(movieID, utils.ErrInvalidMovieID)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, OpByID, func(ctx context.Context) (json.RawMessage, error) {
		return c.upstream.MovieDetails(ctx, id)
	})
}

func (c *CatalogService) Snapshot(ctx context.Context, contentID string) (*tmdb.Movie, error) {
	body, err := c.ByID(ctx, contentID)
	if err != nil {
		return nil, err
	}

	var movie tmdb.Movie
	if err := json.Unmarshal(body, &movie); err != nil {
		return nil, utils.NewUnavailableError(OpByID, fmt.Errorf("decode movie: %w", err))
	}
	return &movie, nil
}
