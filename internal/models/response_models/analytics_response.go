package response_models

type AnalyticsResponse struct {
	TotalItineraries int64   `json:"totalItineraries"`
	TotalTravelers   int64   `json:"totalTravelers"`
	ActiveTrips      int64   `json:"activeTrips"`
	MessagesSent     int64   `json:"messagesSent"`
	MessagesFailed   int64   `json:"messagesFailed"`
	SuccessRate      float64 `json:"successRate"`
	ChatQueries      int64   `json:"chatQueries"`
	LastUpdate       string  `json:"lastUpdate"`
}
