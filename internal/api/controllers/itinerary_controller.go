package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"itinera/internal/models/request_models"
	resp "itinera/internal/models/response_models"
	"itinera/internal/services"
	"itinera/pkg/utils"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50
)

type ItineraryController struct {
	itineraryService services.ItineraryServiceInterface
	uploadService    services.UploadServiceInterface
	searchService    services.SearchServiceInterface
	exportService    services.ExportServiceInterface
}

func NewItineraryController(
	itineraryService services.ItineraryServiceInterface,
	uploadService services.UploadServiceInterface,
	searchService services.SearchServiceInterface,
	exportService services.ExportServiceInterface,
) *ItineraryController {
	return &ItineraryController{
		itineraryService: itineraryService,
		uploadService:    uploadService,
		searchService:    searchService,
		exportService:    exportService,
	}
}

// Upload godoc
// @Summary Upload an itinerary file
// @Description Multipart upload of a PDF, CSV or JSON itinerary (max 10MB). CSV files are parsed into a day schedule.
// @Tags Itineraries
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Itinerary file"
// @Param title formData string false "Trip title"
// @Param destination formData string false "Destination"
// @Param startDate formData string false "Start date (YYYY-MM-DD)"
// @Param endDate formData string false "End date (YYYY-MM-DD)"
// @Param travelerType formData string false "Traveler type"
// @Param description formData string false "Description"
// @Success 200 {object} response_models.CreatedItinerary
// @Failure 400 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /itineraries [post]
func (i *ItineraryController) Upload(c *gin.Context) {
	upload, err := i.uploadService.Receive(c.Writer, c.Request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	itinerary, err := i.itineraryService.CreateFromUpload(c.Request.Context(), c.GetString("user_id"), upload)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, uploadMessage(len(itinerary.Days)), gin.H{
		"item": services.ToCreatedItinerary(itinerary),
	})
}

func uploadMessage(days int) string {
	if days > 0 {
		return fmt.Sprintf("Itinerary uploaded! Timeline parsed (%d days)", days)
	}
	return "Itinerary uploaded! Upload successful"
}

// CreateManual godoc
// @Summary Create an itinerary without a file
// @Tags Itineraries
// @Accept json
// @Produce json
// @Param request body request_models.ManualItineraryRequest true "Itinerary payload"
// @Success 200 {object} response_models.CreatedItinerary
// @Failure 400 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /itineraries/manual [post]
func (i *ItineraryController) CreateManual(c *gin.Context) {
	var req request_models.ManualItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	itinerary, err := i.itineraryService.CreateManualItinerary(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, "Itinerary created successfully", gin.H{
		"item": services.ToCreatedItinerary(itinerary),
	})
}

// List godoc
// @Summary List own itineraries
// @Description Newest first, at most 50, each with a live traveler count
// @Tags Itineraries
// @Produce json
// @Success 200 {array} response_models.ItinerarySummary
// @Security BearerAuth
// @Router /itineraries [get]
func (i *ItineraryController) List(c *gin.Context) {
	items, err := i.itineraryService.ListItineraries(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	respondList(c, items)
}

// Search godoc
// @Summary Search own itineraries
// @Tags Itineraries
// @Produce json
// @Param q query string true "Search text"
// @Param limit query int false "Max results" default(20) minimum(1) maximum(50)
// @Success 200 {array} response_models.ItinerarySummary
// @Failure 400 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /itineraries/search [get]
func (i *ItineraryController) Search(c *gin.Context) {
	var query request_models.SearchItinerariesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if query.Limit == 0 {
		query.Limit = defaultSearchLimit
	}
	if query.Limit < 1 || query.Limit > maxSearchLimit {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit (must be 1-"+strconv.Itoa(maxSearchLimit)+")")
		return
	}

	items, err := i.searchService.SearchItineraries(c.Request.Context(), c.GetString("user_id"), query.Q, query.Limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	respondList(c, items)
}

func respondList(c *gin.Context, items []resp.ItinerarySummary) {
	utils.RespondSuccess(c, "", gin.H{"data": items, "count": len(items)})
}

// Get godoc
// @Summary Get an itinerary with its travelers
// @Tags Itineraries
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} response_models.ItineraryDetail
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /itineraries/{id} [get]
func (i *ItineraryController) Get(c *gin.Context) {
	detail, err := i.itineraryService.GetItinerary(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, "", gin.H{"data": detail})
}

// UpdateStatus godoc
// @Summary Move an itinerary through draft, active and completed
// @Tags Itineraries
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body request_models.UpdateStatusRequest true "New status"
// @Success 200 {object} response_models.CreatedItinerary
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /itineraries/{id}/status [patch]
func (i *ItineraryController) UpdateStatus(c *gin.Context) {
	var req request_models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	itinerary, err := i.itineraryService.UpdateItineraryStatus(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req.Status)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, "Status updated to "+string(itinerary.Status), gin.H{
		"data": services.ToCreatedItinerary(itinerary),
	})
}

// Export godoc
// @Summary Download an itinerary as PDF
// @Tags Itineraries
// @Produce application/pdf
// @Param id path string true "Itinerary ID"
// @Success 200 {file} file
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /itineraries/{id}/export [get]
func (i *ItineraryController) Export(c *gin.Context) {
	file, err := i.exportService.ExportItineraryPDF(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Delete godoc
// @Summary Delete an itinerary
// @Description Soft delete. Travelers are left in place.
// @Tags Itineraries
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} response_models.DeletedItinerary
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /itineraries/{id} [delete]
func (i *ItineraryController) Delete(c *gin.Context) {
	deleted, err := i.itineraryService.DeleteItinerary(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, fmt.Sprintf("Itinerary %q deleted successfully", deleted.Title), gin.H{
		"data": resp.DeletedItinerary{DeletedID: deleted.ID.String(), DeletedTitle: deleted.Title},
	})
}
