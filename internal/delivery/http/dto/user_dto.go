package dto

// UpdateUsernameRequest represents the username change payload
type UpdateUsernameRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
}

// UpdateEmailRequest asks for an OTP to be sent to the new address
type UpdateEmailRequest struct {
	Email string `json:"email" validate:"required,email,max=50"`
}

// ConfirmEmailChangeRequest redeems the OTP and applies the new address
type ConfirmEmailChangeRequest struct {
	OTP string `json:"otp" validate:"required,len=6,numeric"`
}

// DeleteAccountRequest represents the self-deletion payload
type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required,min=8,max=50"`
}
