package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"itinera/internal/models/request_models"
	"itinera/internal/services"
	"itinera/pkg/utils"
)

type ChatController struct {
	assistantService services.AssistantServiceInterface
}

func NewChatController(assistantService services.AssistantServiceInterface) *ChatController {
	return &ChatController{assistantService: assistantService}
}

// ChatQuery godoc
// @Summary Ask the travel assistant
// @Description Optionally scoped to one of the caller's itineraries
// @Tags Assistant
// @Accept json
// @Produce json
// @Param request body request_models.ChatQueryRequest true "Question"
// @Success 200 {object} response_models.ChatReply
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /chat/query [post]
func (ch *ChatController) ChatQuery(c *gin.Context) {
	var req request_models.ChatQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	reply, err := ch.assistantService.Ask(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, "", gin.H{"data": reply})
}
