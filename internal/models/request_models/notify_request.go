package request_models

type NotifyTravelerRequest struct {
	TravelerID string `json:"travelerId" binding:"required"`
	Message    string `json:"message"`
}

type NotifyAllRequest struct {
	Message string `json:"message"`
}
