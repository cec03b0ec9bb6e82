package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"streamflix/internal/models/request_models"
	"streamflix/internal/services"
	"streamflix/pkg/middleware"
	"streamflix/pkg/utils"
)

type ProfileController struct {
	profileService services.ProfileServiceInterface
	watchService   services.WatchServiceInterface
}

func NewProfileController(profileService services.ProfileServiceInterface, watchService services.WatchServiceInterface) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		watchService:   watchService,
	}
}

// caller returns the authenticated user and, for /profiles/:id routes, the
// profile id. It answers the request itself when either is unusable.
func caller(c *gin.Context, withProfile bool) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}
	if !withProfile {
		return userID, uuid.Nil, true
	}

	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrInvalidIdentifier)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, profileID, true
}

// ListProfiles godoc
// @Summary List the caller's profiles
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {array} response_models.ProfileResponse
// @Router /profiles [get]
func (p *ProfileController) ListProfiles(c *gin.Context) {
	userID, _, ok := caller(c, false)
	if !ok {
		return
	}

	profiles, err := p.profileService.List(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, profiles)
}

// Limits godoc
// @Summary Profile count and cap for the caller
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response_models.ProfileLimitsResponse
// @Router /profiles/limits [get]
func (p *ProfileController) Limits(c *gin.Context) {
	userID, _, ok := caller(c, false)
	if !ok {
		return
	}

	limits, err := p.profileService.Limits(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, limits)
}

// GetProfile godoc
// @Summary Get a profile
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile id"
// @Success 200 {object} response_models.ProfileResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /profiles/{id} [get]
func (p *ProfileController) GetProfile(c *gin.Context) {
	userID, profileID, ok := caller(c, true)
	if !ok {
		return
	}

	profile, err := p.profileService.Get(c.Request.Context(), userID, profileID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, profile)
}

// CreateProfile godoc
// @Summary Create a profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.CreateProfileRequest true "Profile payload"
// @Success 201 {object} response_models.ProfileResponse
// @Failure 409 {object} utils.APIResponse
// @Router /profiles [post]
func (p *ProfileController) CreateProfile(c *gin.Context) {
	userID, _, ok := caller(c, false)
	if !ok {
		return
	}

	var req request_models.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	profile, err := p.profileService.Create(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, profile)
}

// UpdateProfile godoc
// @Summary Update a profile
// @Description Only the fields present in the body are changed
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile id"
// @Param request body request_models.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} response_models.ProfileResponse
// @Router /profiles/{id} [put]
func (p *ProfileController) UpdateProfile(c *gin.Context) {
	userID, profileID, ok := caller(c, true)
	if !ok {
		return
	}

	var req request_models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	profile, err := p.profileService.Update(c.Request.Context(), userID, profileID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, profile)
}

// DeleteProfile godoc
// @Summary Delete a profile with its watchlist and history
// @Tags Profiles
// @Security BearerAuth
// @Param id path string true "Profile id"
// @Success 204
// @Failure 409 {object} utils.APIResponse
// @Router /profiles/{id} [delete]
func (p *ProfileController) DeleteProfile(c *gin.Context) {
	userID, profileID, ok := caller(c, true)
	if !ok {
		return
	}

	if err := p.profileService.Delete(c.Request.Context(), userID, profileID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondNoContent(c)
}

// AddToWatchlist godoc
// @Summary Add content to a profile's watchlist
// @Description Adding the same content twice keeps a single entry
// @Tags Watchlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile id"
// @Param request body request_models.AddToWatchlistRequest true "Content reference"
// @Success 201 {object} response_models.WatchlistItemResponse
// @Router /profiles/{id}/watchlist [post]
func (p *ProfileController) AddToWatchlist(c *gin.Context) {
	userID, profileID, ok := caller(c, true)
	if !ok {
		return
	}

	var req request_models.AddToWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	item, err := p.watchService.AddToWatchlist(c.Request.Context(), userID, profileID, req.ContentID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, item)
}

// GetWatchlist godoc
// @Summary A profile's watchlist, oldest first
// @Tags Watchlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile id"
// @Success 200 {array} response_models.WatchlistItemResponse
// @Router /profiles/{id}/watchlist [get]
func (p *ProfileController) GetWatchlist(c *gin.Context) {
	userID, profileID, ok := caller(c, true)
	if !ok {
		return
	}

	items, err := p.watchService.GetWatchlist(c.Request.Context(), userID, profileID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, items)
}

// RemoveFromWatchlist godoc
// @Summary Remove content from a profile's watchlist
// @Tags Watchlist
// @Security BearerAuth
// @Param id path string true "Profile id"
// @Param contentItemId path string true "Content item id or external content id"
// @Success 204
// @Router /profiles/{id}/watchlist/{contentItemId} [delete]
func (p *ProfileController) RemoveFromWatchlist(c *gin.Context) {
	userID, profileID, ok := caller(c, true)
	if !ok {
		return
	}

	if err := p.watchService.RemoveFromWatchlist(c.Request.Context(), userID, profileID, c.Param("contentItemId")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondNoContent(c)
}

// UpdateWatchHistory godoc
// @Summary Record watch progress
// @Description One record per profile and content, later writes overwrite it
// @Tags WatchHistory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile id"
// @Param request body request_models.WatchHistoryRequest true "Progress"
// @Success 200 {object} response_models.WatchHistoryResponse
// @Router /profiles/{id}/watch-history [post]
func (p *ProfileController) UpdateWatchHistory(c *gin.Context) {
	userID, profileID, ok := caller(c, true)
	if !ok {
		return
	}

	var req request_models.WatchHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	record, err := p.watchService.UpdateWatchHistory(c.Request.Context(), userID, profileID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, record)
}

// GetWatchHistory godoc
// @Summary Full watch history, most recent first
// @Tags WatchHistory
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile id"
// @Success 200 {array} response_models.WatchHistoryResponse
// @Router /profiles/{id}/watch-history [get]
func (p *ProfileController) GetWatchHistory(c *gin.Context) {
	userID, profileID, ok := caller(c, true)
	if !ok {
		return
	}

	records, err := p.watchService.GetWatchHistory(c.Request.Context(), userID, profileID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, records)
}

// GetContinueWatching godoc
// @Summary Unfinished content, most recent first, at most 10
// @Tags WatchHistory
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile id"
// @Success 200 {array} response_models.WatchHistoryResponse
// @Router /profiles/{id}/continue-watching [get]
func (p *ProfileController) GetContinueWatching(c *gin.Context) {
	userID, profileID, ok := caller(c, true)
	if !ok {
		return
	}

	records, err := p.watchService.GetContinueWatching(c.Request.Context(), userID, profileID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, records)
}
