package response_models

import "time"

type ProfileResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	AvatarURL     string    `json:"avatarUrl"`
	IsKidsProfile bool      `json:"isKidsProfile"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ProfileLimitsResponse struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

type ContentItemResponse struct {
	ID           string   `json:"id"`
	ContentID    string   `json:"contentId"`
	Title        string   `json:"title,omitempty"`
	Overview     string   `json:"overview,omitempty"`
	PosterPath   string   `json:"posterPath,omitempty"`
	BackdropPath string   `json:"backdropPath,omitempty"`
	ReleaseDate  string   `json:"releaseDate,omitempty"`
	VoteAverage  float64  `json:"voteAverage,omitempty"`
	Genres       []string `json:"genres"`
}

type WatchlistItemResponse struct {
	ID        string              `json:"id"`
	ProfileID string              `json:"profileId"`
	ContentID string              `json:"contentId"`
	AddedAt   time.Time           `json:"addedAt"`
	Content   ContentItemResponse `json:"content"`
}

type WatchHistoryResponse struct {
	ID              string              `json:"id"`
	ProfileID       string              `json:"profileId"`
	ContentID       string              `json:"contentId"`
	WatchedDuration int                 `json:"watchedDuration"`
	Completed       bool                `json:"completed"`
	WatchedAt       time.Time           `json:"watchedAt"`
	Content         ContentItemResponse `json:"content"`
}
