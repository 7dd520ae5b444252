package request_models

type SendMessageRequest struct {
	Message string `json:"message"`
}
