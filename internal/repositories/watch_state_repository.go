package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"streamflix/internal/models/db_models"
)

type WatchStateRepository interface {
	// SaveContentItem inserts the snapshot or refreshes the stored one, then
	// loads the stored row back into item.
	SaveContentItem(ctx context.Context, item *db_models.ContentItem) error
	FindContentItem(ctx context.Context, id uuid.UUID) (*db_models.ContentItem, error)
	FindContentItemByContentID(ctx context.Context, contentID string) (*db_models.ContentItem, error)

	// AddToWatchlist reports whether a new row was written. A repeated
	// (profile, content) pair is a no-op.
	AddToWatchlist(ctx context.Context, entry *db_models.WatchlistEntry) (bool, error)
	FindWatchlistEntry(ctx context.Context, profileID uuid.UUID, contentID string) (*db_models.WatchlistEntry, error)
	ListWatchlist(ctx context.Context, profileID uuid.UUID) ([]db_models.WatchlistEntry, error)
	RemoveFromWatchlist(ctx context.Context, profileID uuid.UUID, contentID string) error

	// UpsertHistory overwrites the single row kept per (profile, content).
	UpsertHistory(ctx context.Context, history *db_models.WatchHistory) error
	FindHistory(ctx context.Context, profileID uuid.UUID, contentID string) (*db_models.WatchHistory, error)
	// ListHistory orders by watched_at descending. limit <= 0 means no limit.
	ListHistory(ctx context.Context, profileID uuid.UUID, incompleteOnly bool, limit int) ([]db_models.WatchHistory, error)
}

type watchStateRepository struct {
	db *gorm.DB
}

func NewWatchStateRepository(db *gorm.DB) WatchStateRepository {
	return &watchStateRepository{db: db}
}

func (w *watchStateRepository) SaveContentItem(ctx context.Context, item *db_models.ContentItem) error {
	err := w.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "content_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "overview", "poster_path", "backdrop_path", "release_date", "vote_average", "genres",
		}),
	}).Create(item).Error
	if err != nil {
		return err
	}

	stored, err := w.FindContentItemByContentID(ctx, item.ContentID)
	if err != nil {
		return err
	}
	if stored == nil {
		return ErrNotFound
	}
	*item = *stored
	return nil
}

func (w *watchStateRepository) FindContentItem(ctx context.Context, id uuid.UUID) (*db_models.ContentItem, error) {
	var item db_models.ContentItem
	err := w.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (w *watchStateRepository) FindContentItemByContentID(ctx context.Context, contentID string) (*db_models.ContentItem, error) {
	var item db_models.ContentItem
	err := w.db.WithContext(ctx).First(&item, "content_id = ?", contentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (w *watchStateRepository) AddToWatchlist(ctx context.Context, entry *db_models.WatchlistEntry) (bool, error) {
	res := w.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "content_id"}},
			DoNothing: true,
		}).
		Create(entry)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (w *watchStateRepository) FindWatchlistEntry(ctx context.Context, profileID uuid.UUID, contentID string) (*db_models.WatchlistEntry, error) {
	var entry db_models.WatchlistEntry
	err := w.db.WithContext(ctx).
		Preload("Content").
		Where("profile_id = ? AND content_id = ?", profileID, contentID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (w *watchStateRepository) ListWatchlist(ctx context.Context, profileID uuid.UUID) ([]db_models.WatchlistEntry, error) {
	var entries []db_models.WatchlistEntry
	err := w.db.WithContext(ctx).
		Preload("Content").
		Where("profile_id = ?", profileID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (w *watchStateRepository) RemoveFromWatchlist(ctx context.Context, profileID uuid.UUID, contentID string) error {
	return w.db.WithContext(ctx).
		Where("profile_id = ? AND content_id = ?", profileID, contentID).
		Delete(&db_models.WatchlistEntry{}).Error
}

func (w *watchStateRepository) UpsertHistory(ctx context.Context, history *db_models.WatchHistory) error {
	return w.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "content_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"watched_duration", "completed", "watched_at"}),
		}).
		Create(history).Error
}

func (w *watchStateRepository) FindHistory(ctx context.Context, profileID uuid.UUID, contentID string) (*db_models.WatchHistory, error) {
	var history db_models.WatchHistory
	err := w.db.WithContext(ctx).
		Preload("Content").
		Where("profile_id = ? AND content_id = ?", profileID, contentID).
		First(&history).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &history, nil
}

func (w *watchStateRepository) ListHistory(ctx context.Context, profileID uuid.UUID, incompleteOnly bool, limit int) ([]db_models.WatchHistory, error) {
	query := w.db.WithContext(ctx).
		Preload("Content").
		Where("profile_id = ?", profileID)
	if incompleteOnly {
		query = query.Where("completed = ?", false)
	}
	query = query.Order("watched_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var history []db_models.WatchHistory
	if err := query.Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}
