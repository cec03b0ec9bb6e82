package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentItem is the denormalized snapshot of an external catalog entry,
// written the first time a profile references its content id.
type ContentItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ContentID    string    `gorm:"uniqueIndex;not null"`
	Title        string
	Overview     string
	PosterPath   string
	BackdropPath string
	ReleaseDate  string
	VoteAverage  float64
	Genres       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    int64          `gorm:"autoCreateTime:nano"`
}

func (c *ContentItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type WatchlistEntry struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	ProfileID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_watchlist_profile_content"`
	ContentID string      `gorm:"not null;uniqueIndex:idx_watchlist_profile_content"`
	CreatedAt int64       `gorm:"autoCreateTime:nano"`
	Content   ContentItem `gorm:"foreignKey:ContentID;references:ContentID"`
}

func (w *WatchlistEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// WatchHistory holds one row per (profile, content); writes overwrite it.
type WatchHistory struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey"`
	ProfileID       uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_history_profile_content"`
	ContentID       string      `gorm:"not null;uniqueIndex:idx_history_profile_content"`
	WatchedDuration int         `gorm:"not null;default:0"`
	Completed       bool        `gorm:"not null;default:false"`
	WatchedAt       time.Time   `gorm:"not null;index"`
	Content         ContentItem `gorm:"foreignKey:ContentID;references:ContentID"`
}

func (w *WatchHistory) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
