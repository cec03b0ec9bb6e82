package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"streamflix/internal/models/db_models"
	"streamflix/internal/models/request_models"
	"streamflix/internal/models/response_models"
	"streamflix/internal/repositories"
	"streamflix/pkg/utils"
)

const maxProfileNameLength = 50

type ProfileServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID) ([]response_models.ProfileResponse, error)
	Get(ctx context.Context, userID, profileID uuid.UUID) (*response_models.ProfileResponse, error)
	Create(ctx context.Context, userID uuid.UUID, request request_models.CreateProfileRequest) (*response_models.ProfileResponse, error)
	Update(ctx context.Context, userID, profileID uuid.UUID, request request_models.UpdateProfileRequest) (*response_models.ProfileResponse, error)
	Delete(ctx context.Context, userID, profileID uuid.UUID) error
	Limits(ctx context.Context, userID uuid.UUID) (*response_models.ProfileLimitsResponse, error)
}

type ProfileService struct {
	profileRepo repositories.ProfileRepository
	maxProfiles int
	log         *logrus.Entry
}

func NewProfileService(profileRepo repositories.ProfileRepository, maxProfiles int, log *logrus.Entry) ProfileServiceInterface {
	return &ProfileService{
		profileRepo: profileRepo,
		maxProfiles: maxProfiles,
		log:         log.WithField("component", "profile"),
	}
}

// authorizeProfile loads the profile and checks that userID owns it.
func authorizeProfile(ctx context.Context, repo repositories.ProfileRepository, userID, profileID uuid.UUID) (*db_models.Profile, error) {
	profile, err := repo.FindByID(ctx, profileID)
	if err != nil {
		return nil, dbError(err)
	}
	if profile == nil {
		return nil, utils.ErrProfileNotFound
	}
	if profile.OwnerID != userID {
		return nil, utils.ErrProfileAccessDenied
	}
	return profile, nil
}

func validName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || utf8.RuneCountInString(name) > maxProfileNameLength {
		return "", utils.ErrInvalidName
	}
	return name, nil
}

func (p *ProfileService) List(ctx context.Context, userID uuid.UUID) ([]response_models.ProfileResponse, error) {
	profiles, err := p.profileRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, dbError(err)
	}
	return toProfileResponses(profiles), nil
}

func (p *ProfileService) Get(ctx context.Context, userID, profileID uuid.UUID) (*response_models.ProfileResponse, error) {
	profile, err := authorizeProfile(ctx, p.profileRepo, userID, profileID)
	if err != nil {
		return nil, err
	}
	resp := toProfileResponse(*profile)
	return &resp, nil
}

func (p *ProfileService) Create(ctx context.Context, userID uuid.UUID, request request_models.CreateProfileRequest) (*response_models.ProfileResponse, error) {
	name, err := validName(request.Name)
	if err != nil {
		return nil, err
	}

	profile := &db_models.Profile{
		OwnerID:       userID,
		Name:          name,
		AvatarURL:     db_models.DefaultAvatarURL,
		IsKidsProfile: request.IsKidsProfile,
	}
	if request.AvatarURL != nil && strings.TrimSpace(*request.AvatarURL) != "" {
		profile.AvatarURL = strings.TrimSpace(*request.AvatarURL)
	}

	err = p.profileRepo.CreateWithinLimit(ctx, profile, p.maxProfiles)
	switch {
	case errors.Is(err, repositories.ErrProfileLimit):
		return nil, utils.ErrProfileLimitReached
	case errors.Is(err, repositories.ErrNotFound):
		return nil, utils.ErrAccountNotFound
	case err != nil:
		return nil, dbError(err)
	}

	p.log.WithFields(logrus.Fields{"user_id": userID, "profile_id": profile.ID}).Info("profile created")
	resp := toProfileResponse(*profile)
	return &resp, nil
}

func (p *ProfileService) Update(ctx context.Context, userID, profileID uuid.UUID, request request_models.UpdateProfileRequest) (*response_models.ProfileResponse, error) {
	profile, err := authorizeProfile(ctx, p.profileRepo, userID, profileID)
	if err != nil {
		return nil, err
	}

	if request.Name != nil {
		name, err := validName(*request.Name)
		if err != nil {
			return nil, err
		}
		profile.Name = name
	}
	if request.AvatarURL != nil {
		profile.AvatarURL = strings.TrimSpace(*request.AvatarURL)
		if profile.AvatarURL == "" {
			profile.AvatarURL = db_models.DefaultAvatarURL
		}
	}
	if request.IsKidsProfile != nil {
		profile.IsKidsProfile = *request.IsKidsProfile
	}

	if err := p.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, utils.ErrProfileNotFound
		}
		return nil, dbError(err)
	}

	resp := toProfileResponse(*profile)
	return &resp, nil
}

func (p *ProfileService) Delete(ctx context.Context, userID, profileID uuid.UUID) error {
	if _, err := authorizeProfile(ctx, p.profileRepo, userID, profileID); err != nil {
		return err
	}

	err := p.profileRepo.DeleteCascade(ctx, userID, profileID)
	switch {
	case errors.Is(err, repositories.ErrLastProfile):
		return utils.ErrLastProfile
	case errors.Is(err, repositories.ErrNotFound):
		return utils.ErrProfileNotFound
	case err != nil:
		return dbError(err)
	}

	p.log.WithFields(logrus.Fields{"user_id": userID, "profile_id": profileID}).Info("profile deleted")
	return nil
}

func (p *ProfileService) Limits(ctx context.Context, userID uuid.UUID) (*response_models.ProfileLimitsResponse, error) {
	count, err := p.profileRepo.CountByOwner(ctx, userID)
	if err != nil {
		return nil, dbError(err)
	}
	return &response_models.ProfileLimitsResponse{Current: int(count), Max: p.maxProfiles}, nil
}
