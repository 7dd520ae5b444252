package db_models

import (
	"time"

	"github.com/google/uuid"
)

type Trip struct {
	BaseModel
	Title       string
	Description string
	Location    string
	Latitude    *float64
	Longitude   *float64
	StartDate   time.Time
	EndDate     time.Time
	Spots       int
	// SpotsFilled counts approved participants; only the participant
	// transition transaction writes it.
	SpotsFilled int
	CreatorID   uuid.UUID `gorm:"type:uuid;index"`

	Creator      User              `gorm:"foreignKey:CreatorID"`
	Participants []TripParticipant `gorm:"foreignKey:TripID"`
	Chat         *Chat             `gorm:"foreignKey:TripID"`
}

func (t *Trip) AvailableSpots() int {
	return t.Spots - t.SpotsFilled
}

const (
	ParticipantPending  = "pending"
	ParticipantApproved = "approved"
	ParticipantRejected = "rejected"
)

type TripParticipant struct {
	BaseModel
	TripID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_trip_participant"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_trip_participant"`
	Status string    `gorm:"default:pending"`

	User User `gorm:"foreignKey:UserID"`
}
