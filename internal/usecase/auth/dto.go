package auth

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,max=254"`
	Password string `json:"password" form:"password" validate:"required,max=128"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,max=254"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" form:"token" validate:"required,max=64"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required,password"`
}

// SessionResponse is returned by login and by both registration endpoints.
type SessionResponse struct {
	Token      string `json:"token"`
	Role       string `json:"role"`
	IsApproved bool   `json:"is_approved"`
}

type ForgotPasswordResponse struct {
	// ResetToken is empty when the token was delivered out of band.
	ResetToken string `json:"reset_token,omitempty"`
}
