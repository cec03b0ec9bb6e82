package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"streamflix/internal/services"
	"streamflix/pkg/utils"
)

type MoviesController struct {
	catalogService services.CatalogServiceInterface
}

func NewMoviesController(catalogService services.CatalogServiceInterface) *MoviesController {
	return &MoviesController{catalogService: catalogService}
}

// passthrough writes the upstream JSON body unchanged.
func passthrough(c *gin.Context, body json.RawMessage, err error) {
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Trending godoc
// @Summary Trending movies of the day
// @Tags Movies
// @Produce json
// @Success 200 {array} object
// @Failure 502 {object} utils.APIResponse
// @Router /movies/trending [get]
func (m *MoviesController) Trending(c *gin.Context) {
	body, err := m.catalogService.Trending(c.Request.Context())
	passthrough(c, body, err)
}

// Popular godoc
// @Summary Popular movies
// @Tags Movies
// @Produce json
// @Success 200 {array} object
// @Failure 502 {object} utils.APIResponse
// @Router /movies/popular [get]
func (m *MoviesController) Popular(c *gin.Context) {
	body, err := m.catalogService.Popular(c.Request.Context())
	passthrough(c, body, err)
}

// ByGenre godoc
// @Summary Movies in a genre
// @Tags Movies
// @Produce json
// @Param genreId path int true "TMDB genre id"
// @Success 200 {array} object
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /movies/genre/{genreId} [get]
func (m *MoviesController) ByGenre(c *gin.Context) {
	body, err := m.catalogService.ByGenre(c.Request.Context(), c.Param("genreId"))
	passthrough(c, body, err)
}

// ByID godoc
// @Summary Movie details
// @Tags Movies
// @Produce json
// @Param movieId path int true "TMDB movie id"
// @Success 200 {object} object
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /movies/{movieId} [get]
func (m *MoviesController) ByID(c *gin.Context) {
	body, err := m.catalogService.ByID(c.Request.Context(), c.Param("movieId"))
	passthrough(c, body, err)
}
