package request_models

import "time"

type CreateTripRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=120"`
	Description string    `json:"description" binding:"max=2000"`
	Location    string    `json:"location" binding:"required"`
	Latitude    *float64  `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude   *float64  `json:"longitude" binding:"omitempty,min=-180,max=180"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	Spots       int       `json:"spots" binding:"required,min=1,max=100"`
}

type UpdateTripRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=3,max=120"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Location    *string    `json:"location"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Spots       *int       `json:"spots" binding:"omitempty,min=1,max=100"`
}

const (
	ParticipantActionApprove = "approve"
	ParticipantActionReject  = "reject"
	ParticipantActionRemove  = "remove"
)

type UpdateParticipantRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject remove"`
}
