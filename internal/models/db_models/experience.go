package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Experience struct {
	BaseModel
	Title       string
	Description string
	Location    string
	ImageURL    string
	// ImageKey is the object key behind ImageURL, kept for deletes.
	ImageKey   string
	UserID     uuid.UUID      `gorm:"type:uuid;index"`
	Categories pq.StringArray `gorm:"type:text[]"`

	User User `gorm:"foreignKey:UserID"`
}
