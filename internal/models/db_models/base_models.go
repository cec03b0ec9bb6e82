package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel timestamps are unix nanoseconds so that created_at alone
// preserves insertion order for rows written in the same second.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt int64     `gorm:"autoCreateTime:nano"`
	UpdatedAt int64     `gorm:"autoUpdateTime:nano"`
}

// Touch fills the id and timestamps the way BeforeCreate does, for stores
// that do not run gorm hooks.
func (b *BaseModel) Touch(now time.Time) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt == 0 {
		b.CreatedAt = now.UnixNano()
	}
	b.UpdatedAt = now.UnixNano()
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	b.Touch(time.Now())
	return nil
}

func (b *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	b.UpdatedAt = time.Now().UnixNano()
	return nil
}
