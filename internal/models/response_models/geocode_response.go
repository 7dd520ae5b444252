package response_models

type Place struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	PlaceName string  `json:"place_name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
