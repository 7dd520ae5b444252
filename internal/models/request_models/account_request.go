package request_models

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=80"`
	Username string `json:"username" binding:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type UpdateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=80"`
	Username *string `json:"username" binding:"omitempty,min=3,max=30,alphanum"`
	Bio      *string `json:"bio" binding:"omitempty,max=500"`
}

type VerifyUserRequest struct {
	IsVerified bool   `json:"is_verified"`
	Reason     string `json:"verification_reason" binding:"max=500"`
}
