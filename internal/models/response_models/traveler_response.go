package response_models

type TravelerSummary struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email"`
	Language  string  `json:"language"`
	IsPrimary bool    `json:"isPrimary"`
}

type TravelerResponse struct {
	TravelerSummary
	ItineraryID string `json:"itineraryId"`
	CreatedAt   string `json:"createdAt"`
}
