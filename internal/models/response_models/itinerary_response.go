package response_models

import "itinera/internal/models/db_models"

type ItinerarySummary struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Destination   string               `json:"destination"`
	StartDate     string               `json:"startDate,omitempty"`
	EndDate       string               `json:"endDate,omitempty"`
	TravelerType  string               `json:"travelerType"`
	Description   string               `json:"description"`
	Status        string               `json:"status"`
	Days          []db_models.DayEntry `json:"days"`
	TravelerCount int64                `json:"travelerCount"`
	CreatedAt     string               `json:"createdAt"`
	UpdatedAt     string               `json:"updatedAt"`
}

type ItineraryDetail struct {
	ItinerarySummary
	FileURL   *string           `json:"fileUrl"`
	FileSize  *int64            `json:"fileSize"`
	FileType  *string           `json:"fileType"`
	Travelers []TravelerSummary `json:"travelers"`
}

// CreatedItinerary is the item returned after an upload or manual create.
type CreatedItinerary struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Destination string               `json:"destination"`
	Status      string               `json:"status"`
	Days        []db_models.DayEntry `json:"days"`
	FileURL     *string              `json:"fileUrl"`
	CreatedAt   string               `json:"createdAt"`
}

type DeletedItinerary struct {
	DeletedID    string `json:"deletedId"`
	DeletedTitle string `json:"deletedTitle"`
}
