package response_models

type ChatReply struct {
	Message  string `json:"message"`
	Provider string `json:"provider"`
}
