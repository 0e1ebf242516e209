package request_models

type ChatQueryRequest struct {
	Message     string `json:"message"`
	ItineraryID string `json:"itineraryId"`
}
