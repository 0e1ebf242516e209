package controllers

import (
	"github.com/gin-gonic/gin"

	"itinera/internal/services"
	"itinera/pkg/utils"
)

type AnalyticsController struct {
	analyticsService services.AnalyticsServiceInterface
}

func NewAnalyticsController(analyticsService services.AnalyticsServiceInterface) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

// GetAnalytics godoc
// @Summary Get account statistics
// @Description Live counts of itineraries, travelers, active trips, message outcomes and assistant queries
// @Tags Analytics
// @Produce json
// @Success 200 {object} response_models.AnalyticsResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /analytics [get]
func (a *AnalyticsController) GetAnalytics(c *gin.Context) {
	stats, err := a.analyticsService.GetAnalytics(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, "", gin.H{"data": stats})
}

// Health godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} utils.ErrorResponse
// @Router /health [get]
func Health(c *gin.Context) {
	utils.RespondSuccess(c, "", nil)
}
