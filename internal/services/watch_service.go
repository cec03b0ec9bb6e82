package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"streamflix/internal/models/db_models"
	"streamflix/internal/models/request_models"
	"streamflix/internal/models/response_models"
	"streamflix/internal/repositories"
	"streamflix/pkg/metrics"
	"streamflix/pkg/tmdb"
	"streamflix/pkg/utils"
)

const (
	ContinueWatchingLimit = 10
	maxContentIDLength    = 64
)

// ContentSnapshotter resolves content detail for a ContentItem snapshot.
type ContentSnapshotter interface {
	Snapshot(ctx context.Context, contentID string) (*tmdb.Movie, error)
}

type WatchServiceInterface interface {
	AddToWatchlist(ctx context.Context, userID, profileID uuid.UUID, contentID string) (*response_models.WatchlistItemResponse, error)
	GetWatchlist(ctx context.Context, userID, profileID uuid.UUID) ([]response_models.WatchlistItemResponse, error)
	// RemoveFromWatchlist accepts a ContentItem id or an external content id.
	RemoveFromWatchlist(ctx context.Context, userID, profileID uuid.UUID, ref string) error
	UpdateWatchHistory(ctx context.Context, userID, profileID uuid.UUID, request request_models.WatchHistoryRequest) (*response_models.WatchHistoryResponse, error)
	GetContinueWatching(ctx context.Context, userID, profileID uuid.UUID) ([]response_models.WatchHistoryResponse, error)
	GetWatchHistory(ctx context.Context, userID, profileID uuid.UUID) ([]response_models.WatchHistoryResponse, error)
}

type WatchService struct {
	profileRepo repositories.ProfileRepository
	watchRepo   repositories.WatchStateRepository
	catalog     ContentSnapshotter
	metrics     *metrics.Metrics
	log         *logrus.Entry
	now         func() time.Time
}

func NewWatchService(
	profileRepo repositories.ProfileRepository,
	watchRepo repositories.WatchStateRepository,
	catalog ContentSnapshotter,
	m *metrics.Metrics,
	log *logrus.Entry,
) WatchServiceInterface {
	return &WatchService{
		profileRepo: profileRepo,
		watchRepo:   watchRepo,
		catalog:     catalog,
		metrics:     m,
		log:         log.WithField("component", "watch_state"),
		now:         time.Now,
	}
}

func validContentID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxContentIDLength {
		return "", utils.ErrInvalidContentID
	}
	return id, nil
}

// ensureContentItem makes sure a snapshot row exists for contentID. Detail
// comes from the catalog when it answers; otherwise a bare row is stored and
// filled in on a later reference.
func (w *WatchService) ensureContentItem(ctx context.Context, contentID string) error {
	existing, err := w.watchRepo.FindContentItemByContentID(ctx, contentID)
	if err != nil {
		return dbError(err)
	}
	if existing != nil && existing.Title != "" {
		return nil
	}

	item := db_models.ContentItem{ContentID: contentID}
	movie, err := w.catalog.Snapshot(ctx, contentID)
	if err != nil {
		w.log.WithError(err).WithField("content_id", contentID).Warn("content snapshot unavailable")
		if existing != nil {
			return nil
		}
	} else {
		item = snapshotFromMovie(contentID, movie)
	}

	if err := w.watchRepo.SaveContentItem(ctx, &item); err != nil {
		return dbError(err)
	}
	return nil
}

func snapshotFromMovie(contentID string, m *tmdb.Movie) db_models.ContentItem {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	genres, _ := json.Marshal(names)

	return db_models.ContentItem{
		ContentID:    contentID,
		Title:        m.Title,
		Overview:     m.Overview,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		ReleaseDate:  m.ReleaseDate,
		VoteAverage:  m.VoteAverage,
		Genres:       datatypes.JSON(genres),
	}
}

func (w *WatchService) AddToWatchlist(ctx context.Context, userID, profileID uuid.UUID, contentID string) (*response_models.WatchlistItemResponse, error) {
	if _, err := authorizeProfile(ctx, w.profileRepo, userID, profileID); err != nil {
		return nil, err
	}
	contentID, err := validContentID(contentID)
	if err != nil {
		return nil, err
	}
	if err := w.ensureContentItem(ctx, contentID); err != nil {
		return nil, err
	}

	added, err := w.watchRepo.AddToWatchlist(ctx, &db_models.WatchlistEntry{
		ProfileID: profileID,
		ContentID: contentID,
	})
	if err != nil {
		return nil, dbError(err)
	}
	if added {
		w.metrics.WatchStateWrites.WithLabelValues("watchlist_add").Inc()
	}

	entry, err := w.watchRepo.FindWatchlistEntry(ctx, profileID, contentID)
	if err != nil {
		return nil, dbError(err)
	}
	if entry == nil {
		return nil, utils.ErrProfileNotFound
	}
	resp := toWatchlistItemResponse(*entry)
	return &resp, nil
}

func (w *WatchService) GetWatchlist(ctx context.Context, userID, profileID uuid.UUID) ([]response_models.WatchlistItemResponse, error) {
	if _, err := authorizeProfile(ctx, w.profileRepo, userID, profileID); err != nil {
		return nil, err
	}

	entries, err := w.watchRepo.ListWatchlist(ctx, profileID)
	if err != nil {
		return nil, dbError(err)
	}
	out := make([]response_models.WatchlistItemResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toWatchlistItemResponse(e))
	}
	return out, nil
}

func (w *WatchService) RemoveFromWatchlist(ctx context.Context, userID, profileID uuid.UUID, ref string) error {
	if _, err := authorizeProfile(ctx, w.profileRepo, userID, profileID); err != nil {
		return err
	}
	contentID, err := validContentID(ref)
	if err != nil {
		return err
	}

	if itemID, parseErr := uuid.Parse(contentID); parseErr == nil {
		item, err := w.watchRepo.FindContentItem(ctx, itemID)
		if err != nil {
			return dbError(err)
		}
		if item != nil {
			contentID = item.ContentID
		}
	}

	if err := w.watchRepo.RemoveFromWatchlist(ctx, profileID, contentID); err != nil {
		return dbError(err)
	}
	w.metrics.WatchStateWrites.WithLabelValues("watchlist_remove").Inc()
	return nil
}

func (w *WatchService) UpdateWatchHistory(ctx context.Context, userID, profileID uuid.UUID, request request_models.WatchHistoryRequest) (*response_models.WatchHistoryResponse, error) {
	if _, err := authorizeProfile(ctx, w.profileRepo, userID, profileID); err != nil {
		return nil, err
	}
	contentID, err := validContentID(request.ContentID)
	if err != nil {
		return nil, err
	}
	if request.WatchedDuration < 0 {
		return nil, utils.ErrInvalidDuration
	}
	if err := w.ensureContentItem(ctx, contentID); err != nil {
		return nil, err
	}

	err = w.watchRepo.UpsertHistory(ctx, &db_models.WatchHistory{
		ProfileID:       profileID,
		ContentID:       contentID,
		WatchedDuration: request.WatchedDuration,
		Completed:       request.Completed,
		WatchedAt:       w.now().UTC(),
	})
	if err != nil {
		return nil, dbError(err)
	}
	w.metrics.WatchStateWrites.WithLabelValues("history").Inc()

	stored, err := w.watchRepo.FindHistory(ctx, profileID, contentID)
	if err != nil {
		return nil, dbError(err)
	}
	if stored == nil {
		return nil, utils.ErrProfileNotFound
	}
	resp := toWatchHistoryResponse(*stored)
	return &resp, nil
}

func (w *WatchService) GetContinueWatching(ctx context.Context, userID, profileID uuid.UUID) ([]response_models.WatchHistoryResponse, error) {
	return w.listHistory(ctx, userID, profileID, true, ContinueWatchingLimit)
}

func (w *WatchService) GetWatchHistory(ctx context.Context, userID, profileID uuid.UUID) ([]response_models.WatchHistoryResponse, error) {
	return w.listHistory(ctx, userID, profileID, false, 0)
}

func (w *WatchService) listHistory(ctx context.Context, userID, profileID uuid.UUID, incompleteOnly bool, limit int) ([]response_models.WatchHistoryResponse, error) {
	if _, err := authorizeProfile(ctx, w.profileRepo, userID, profileID); err != nil {
		return nil, err
	}

	history, err := w.watchRepo.ListHistory(ctx, profileID, incompleteOnly, limit)
	if err != nil {
		return nil, dbError(err)
	}
	return toWatchHistoryResponses(history), nil
}
