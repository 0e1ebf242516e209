package request_models

type DayEntryRequest struct {
	Day         int    `json:"day"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type ManualItineraryRequest struct {
	Title        string            `json:"title"`
	Destination  string            `json:"destination"`
	StartDate    string            `json:"startDate"`
	EndDate      string            `json:"endDate"`
	TravelerType string            `json:"travelerType"`
	Description  string            `json:"description"`
	Days         []DayEntryRequest `json:"days"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SearchItinerariesQuery struct {
	Q     string `form:"q"`
	Limit int    `form:"limit"`
}
