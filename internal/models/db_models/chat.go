package db_models

import "github.com/google/uuid"

// Chat is the group chat of a trip; members are the trip creator and its
// approved participants.
type Chat struct {
	BaseModel
	TripID uuid.UUID `gorm:"type:uuid;uniqueIndex"`

	Trip Trip `gorm:"foreignKey:TripID"`
}

type ChatMessage struct {
	BaseModel
	ChatID  uuid.UUID `gorm:"type:uuid;index"`
	UserID  uuid.UUID `gorm:"type:uuid"`
	Message string

	User User `gorm:"foreignKey:UserID"`
}
