package request_models

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// bcrypt ignores everything past 72 bytes, so longer passwords are refused.
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Plan     string `json:"plan" binding:"omitempty,max=32"`
}
