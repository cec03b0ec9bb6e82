package db_models

import "github.com/google/uuid"

const (
	DefaultProfileName = "Main Profile"
	DefaultAvatarURL   = "/avatars/default.png"
)

type Profile struct {
	BaseModel
	OwnerID       uuid.UUID `gorm:"type:uuid;index;not null"`
	Name          string    `gorm:"not null"`
	AvatarURL     string
	IsKidsProfile bool `gorm:"not null;default:false"`
}

func NewDefaultProfile(ownerID uuid.UUID) *Profile {
	return &Profile{
		OwnerID:   ownerID,
		Name:      DefaultProfileName,
		AvatarURL: DefaultAvatarURL,
	}
}
