package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"streamflix/pkg/utils"
)

// Pinger reports whether the storage backend is reachable.
type Pinger func(ctx context.Context) error

type HealthController struct {
	ping Pinger
}

func NewHealthController(ping Pinger) *HealthController {
	return &HealthController{ping: ping}
}

// Healthz godoc
// @Summary Liveness and storage check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} utils.APIResponse
// @Router /healthz [get]
func (h *HealthController) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			utils.Logger(c).WithError(err).Warn("health check failed")
			utils.RespondError(c, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
	}
	utils.RespondSuccess(c, gin.H{"status": "ok"})
}
