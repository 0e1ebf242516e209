package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"itinera/internal/models/request_models"
	resp "itinera/internal/models/response_models"
	"itinera/internal/services"
	"itinera/pkg/utils"
)

type NotificationController struct {
	notificationService services.NotificationServiceInterface
}

func NewNotificationController(notificationService services.NotificationServiceInterface) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// NotifyTraveler godoc
// @Summary Send the itinerary message to one traveler
// @Tags Notifications
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body request_models.NotifyTravelerRequest true "Recipient and optional message"
// @Success 200 {object} response_models.NotifyReport
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /itineraries/{id}/notify [post]
func (n *NotificationController) NotifyTraveler(c *gin.Context) {
	var req request_models.NotifyTravelerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	report, err := n.notificationService.NotifyTraveler(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req.TravelerID, req.Message)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	message := "Message could not be delivered"
	if report.Sent > 0 && len(report.Results) > 0 {
		message = "Message sent to " + report.Results[0].Name + "!"
	}
	respondReport(c, message, report)
}

// NotifyAll godoc
// @Summary Send the itinerary message to every traveler
// @Description Travelers are messaged one after another with a fixed delay. A failed recipient never stops the batch.
// @Tags Notifications
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body request_models.NotifyAllRequest false "Optional message"
// @Success 200 {object} response_models.NotifyReport
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /itineraries/{id}/notify-all [post]
func (n *NotificationController) NotifyAll(c *gin.Context) {
	var req request_models.NotifyAllRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	report, err := n.notificationService.NotifyAll(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req.Message)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	respondReport(c, fmt.Sprintf("%d/%d travelers notified", report.Sent, report.Total), report)
}

func respondReport(c *gin.Context, message string, report *resp.NotifyReport) {
	utils.RespondSuccess(c, message, gin.H{
		"sent":    report.Sent,
		"total":   report.Total,
		"results": report.Results,
	})
}
