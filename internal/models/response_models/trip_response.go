package response_models

type TripResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Latitude    *float64      `json:"latitude,omitempty"`
	Longitude   *float64      `json:"longitude,omitempty"`
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	Spots       int           `json:"spots"`
	SpotsFilled int           `json:"spots_filled"`
	CreatorID   string        `json:"creator_id"`
	Creator     *UserResponse `json:"creator,omitempty"`
	ChatID      string        `json:"chat_id,omitempty"`
	CreatedAt   string        `json:"created_at"`
}

type ParticipantResponse struct {
	ID     string        `json:"id"`
	TripID string        `json:"trip_id"`
	UserID string        `json:"user_id"`
	Status string        `json:"status"`
	User   *UserResponse `json:"user,omitempty"`
}
