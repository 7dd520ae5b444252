package response_models

const (
	FeedItemTrip       = "trip"
	FeedItemExperience = "experience"
)

type FeedItem struct {
	Kind       string              `json:"kind"`
	CreatedAt  string              `json:"created_at"`
	Trip       *TripResponse       `json:"trip,omitempty"`
	Experience *ExperienceResponse `json:"experience,omitempty"`
}
