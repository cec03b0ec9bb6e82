package controllers

import (
	"github.com/gin-gonic/gin"
	"streamflix/internal/services"
	"streamflix/pkg/utils"
)

type PlanController struct {
	planService services.PlanServiceInterface
}

func NewPlanController(planService services.PlanServiceInterface) *PlanController {
	return &PlanController{planService: planService}
}

// ListPlans godoc
// @Summary List subscription plans
// @Description Plans are descriptive, nothing is charged
// @Tags Plans
// @Produce json
// @Success 200 {array} response_models.PlanResponse
// @Router /plans [get]
func (p *PlanController) ListPlans(c *gin.Context) {
	plans, err := p.planService.GetPlans(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plans)
}
