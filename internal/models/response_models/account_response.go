package response_models

type AccountLoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Username           string `json:"username"`
	Email              string `json:"email,omitempty"`
	ProfileImage       string `json:"profile_image"`
	Bio                string `json:"bio"`
	Role               string `json:"role,omitempty"`
	IsVerified         bool   `json:"is_verified"`
	VerificationReason string `json:"verification_reason,omitempty"`
}

type ProfileResponse struct {
	UserResponse
	Followers   int64 `json:"followers"`
	Following   int64 `json:"following"`
	IsFollowing bool  `json:"is_following"`
}
