package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"itinera/internal/models/request_models"
	"itinera/internal/services"
	"itinera/pkg/utils"
)

type TravelerController struct {
	travelerService services.TravelerServiceInterface
}

func NewTravelerController(travelerService services.TravelerServiceInterface) *TravelerController {
	return &TravelerController{travelerService: travelerService}
}

// Add godoc
// @Summary Add a traveler to an itinerary
// @Tags Travelers
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body request_models.AddTravelerRequest true "Traveler payload"
// @Success 200 {object} response_models.TravelerResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /itineraries/{id}/travelers [post]
func (t *TravelerController) Add(c *gin.Context) {
	var req request_models.AddTravelerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	traveler, err := t.travelerService.AddTraveler(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, "Traveler added successfully!", gin.H{
		"traveler": services.ToTravelerResponse(traveler),
	})
}

// List godoc
// @Summary List the travelers of an itinerary
// @Tags Travelers
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {array} response_models.TravelerResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /itineraries/{id}/travelers [get]
func (t *TravelerController) List(c *gin.Context) {
	travelers, err := t.travelerService.ListTravelers(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, "", gin.H{
		"data":  services.ToTravelerResponses(travelers),
		"count": len(travelers),
	})
}

// Remove godoc
// @Summary Remove a traveler from an itinerary
// @Tags Travelers
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param travelerId path string true "Traveler ID"
// @Success 200 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /itineraries/{id}/travelers/{travelerId} [delete]
func (t *TravelerController) Remove(c *gin.Context) {
	err := t.travelerService.RemoveTraveler(c.Request.Context(), c.GetString("user_id"), c.Param("id"), c.Param("travelerId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, "Traveler removed successfully", nil)
}
