package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"streamflix/internal/models/db_models"
)

type ProfileRepository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]db_models.Profile, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Profile, error)
	// CreateWithinLimit fails with ErrProfileLimit when the owner already has max profiles.
	CreateWithinLimit(ctx context.Context, profile *db_models.Profile, max int) error
	Update(ctx context.Context, profile *db_models.Profile) error
	// DeleteCascade removes the profile together with its watchlist and
	// history. It refuses to remove an owner's only profile.
	DeleteCascade(ctx context.Context, ownerID, profileID uuid.UUID) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (p *profileRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]db_models.Profile, error) {
	var profiles []db_models.Profile
	err := p.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (p *profileRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Model(&db_models.Profile{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

func (p *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Profile, error) {
	var profile db_models.Profile
	err := p.db.WithContext(ctx).First(&profile, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &profile, nil
}

// lockOwner serialises profile count changes for one user.
func lockOwner(tx *gorm.DB, ownerID uuid.UUID) error {
	var owner db_models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&owner, "id = ?", ownerID).Error
	return translate(err)
}

func (p *profileRepository) CreateWithinLimit(ctx context.Context, profile *db_models.Profile, max int) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOwner(tx, profile.OwnerID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&db_models.Profile{}).Where("owner_id = ?", profile.OwnerID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(max) {
			return ErrProfileLimit
		}

		return tx.Create(profile).Error
	})
}

func (p *profileRepository) Update(ctx context.Context, profile *db_models.Profile) error {
	res := p.db.WithContext(ctx).
		Model(profile).
		Select("name", "avatar_url", "is_kids_profile", "updated_at").
		Updates(profile)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *profileRepository) DeleteCascade(ctx context.Context, ownerID, profileID uuid.UUID) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOwner(tx, ownerID); err != nil {
			return err
		}

		var owned int64
		err := tx.Model(&db_models.Profile{}).
			Where("id = ? AND owner_id = ?", profileID, ownerID).
			Count(&owned).Error
		if err != nil {
			return err
		}
		if owned == 0 {
			return ErrNotFound
		}

		var count int64
		if err := tx.Model(&db_models.Profile{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastProfile
		}

		if err := tx.Where("profile_id = ?", profileID).Delete(&db_models.WatchHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", profileID).Delete(&db_models.WatchlistEntry{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND owner_id = ?", profileID, ownerID).Delete(&db_models.Profile{}).Error
	})
}
