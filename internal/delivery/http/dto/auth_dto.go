package dto

// RegisterRequest represents the registration payload
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=50"`
	Password string `json:"password" validate:"required,min=8,max=50"`
}

// LoginRequest represents the login payload; identifier matches
// username or email
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,min=3"`
	Password   string `json:"password" validate:"required,min=8,max=50"`
}

// ChangePasswordRequest represents the authenticated password change payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required,min=8,max=50"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=50"`
}

// ForgotPasswordRequest represents the reset-link request payload
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents the reset redemption payload; the
// token itself travels in the query string
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=8,max=50"`
}
