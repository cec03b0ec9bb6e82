package services

import (
	"encoding/json"

	"streamflix/internal/models/db_models"
	"streamflix/internal/models/response_models"
	"streamflix/pkg/utils"
)

func toProfileResponse(p db_models.Profile) response_models.ProfileResponse {
	return response_models.ProfileResponse{
		ID:            p.ID.String(),
		UserID:        p.OwnerID.String(),
		Name:          p.Name,
		AvatarURL:     p.AvatarURL,
		IsKidsProfile: p.IsKidsProfile,
		CreatedAt:     utils.FromUnixNano(p.CreatedAt),
	}
}

func toProfileResponses(profiles []db_models.Profile) []response_models.ProfileResponse {
	out := make([]response_models.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileResponse(p))
	}
	return out
}

func toUserSummary(u db_models.User, profiles []db_models.Profile) response_models.UserSummary {
	return response_models.UserSummary{
		ID:               u.ID.String(),
		Email:            u.Email,
		Profiles:         toProfileResponses(profiles),
		SubscriptionPlan: u.SubscriptionPlan,
	}
}

func toPlanResponse(p db_models.Plan) response_models.PlanResponse {
	return response_models.PlanResponse{
		Code:         p.Code,
		Name:         p.Name,
		Period:       string(p.Period),
		Price:        p.PriceMinor,
		Currency:     p.Currency,
		VideoQuality: p.VideoQuality,
		Resolution:   p.Resolution,
		MaxScreens:   p.MaxScreens,
	}
}

func toContentItemResponse(c db_models.ContentItem) response_models.ContentItemResponse {
	genres := []string{}
	if len(c.Genres) > 0 {
		// a malformed column just yields no genres
		_ = json.Unmarshal(c.Genres, &genres)
	}
	return response_models.ContentItemResponse{
		ID:           c.ID.String(),
		ContentID:    c.ContentID,
		Title:        c.Title,
		Overview:     c.Overview,
		PosterPath:   c.PosterPath,
		BackdropPath: c.BackdropPath,
		ReleaseDate:  c.ReleaseDate,
		VoteAverage:  c.VoteAverage,
		Genres:       genres,
	}
}

func toWatchlistItemResponse(e db_models.WatchlistEntry) response_models.WatchlistItemResponse {
	return response_models.WatchlistItemResponse{
		ID:        e.ID.String(),
		ProfileID: e.ProfileID.String(),
		ContentID: e.ContentID,
		AddedAt:   utils.FromUnixNano(e.CreatedAt),
		Content:   toContentItemResponse(e.Content),
	}
}

func toWatchHistoryResponse(h db_models.WatchHistory) response_models.WatchHistoryResponse {
	return response_models.WatchHistoryResponse{
		ID:              h.ID.String(),
		ProfileID:       h.ProfileID.String(),
		ContentID:       h.ContentID,
		WatchedDuration: h.WatchedDuration,
		Completed:       h.Completed,
		WatchedAt:       h.WatchedAt.UTC(),
		Content:         toContentItemResponse(h.Content),
	}
}

func toWatchHistoryResponses(history []db_models.WatchHistory) []response_models.WatchHistoryResponse {
	out := make([]response_models.WatchHistoryResponse, 0, len(history))
	for _, h := range history {
		out = append(out, toWatchHistoryResponse(h))
	}
	return out
}
