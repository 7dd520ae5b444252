package response_models

type ChatResponse struct {
	ID        string `json:"id"`
	TripID    string `json:"trip_id"`
	TripTitle string `json:"trip_title"`
}

type ChatMessageResponse struct {
	ID        string `json:"id"`
	ChatID    string `json:"chat_id"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}
