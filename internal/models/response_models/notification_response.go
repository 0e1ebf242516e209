package response_models

type NotifyResult struct {
	Success    bool   `json:"success"`
	TravelerID string `json:"travelerId"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Sid        string `json:"sid,omitempty"`
	Error      string `json:"error,omitempty"`
}

type NotifyReport struct {
	Sent    int            `json:"sent"`
	Total   int            `json:"total"`
	Results []NotifyResult `json:"results"`
}
