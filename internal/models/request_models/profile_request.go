package request_models

type CreateProfileRequest struct {
	Name          string  `json:"name" binding:"required,max=50"`
	AvatarURL     *string `json:"avatarUrl" binding:"omitempty,max=512"`
	IsKidsProfile bool    `json:"isKidsProfile"`
}

// UpdateProfileRequest only touches the fields present in the body.
type UpdateProfileRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=50"`
	AvatarURL     *string `json:"avatarUrl" binding:"omitempty,max=512"`
	IsKidsProfile *bool   `json:"isKidsProfile"`
}

type AddToWatchlistRequest struct {
	ContentID string `json:"contentId" binding:"required,max=64"`
}

type WatchHistoryRequest struct {
	ContentID       string `json:"contentId" binding:"required,max=64"`
	WatchedDuration int    `json:"watchedDuration" binding:"min=0"`
	Completed       bool   `json:"completed"`
}
