package db_models

import "github.com/google/uuid"

type Follow struct {
	BaseModel
	FollowerID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_follow_pair"`
	FollowingID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_follow_pair;index"`
}
