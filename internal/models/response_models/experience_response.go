package response_models

type ExperienceResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	ImageURL    string        `json:"image_url"`
	UserID      string        `json:"user_id"`
	User        *UserResponse `json:"user,omitempty"`
	Categories  []string      `json:"categories"`
	CreatedAt   string        `json:"created_at"`
}
