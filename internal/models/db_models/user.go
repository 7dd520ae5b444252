package db_models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	BaseModel
	Name               string
	Username           string `gorm:"uniqueIndex"`
	Email              string `gorm:"uniqueIndex"`
	PasswordHash       string
	Role               string `gorm:"default:user"`
	Bio                string
	ProfileImage       string
	IsVerified         bool
	VerificationReason string
}
