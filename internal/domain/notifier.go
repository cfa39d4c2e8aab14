package domain

import "context"

// Notifier is the transactional-email sink. Sends are best effort:
// implementations report success as a bool, log failures, and never
// return an error to callers.
type Notifier interface {
	SendEmailVerification(ctx context.Context, data EmailVerificationData) bool
	SendPasswordReset(ctx context.Context, data PasswordResetData) bool
	SendPasswordChanged(ctx context.Context, data PasswordChangedData) bool
	SendAccountDeletion(ctx context.Context, data AccountDeletionData) bool
	SendEmailChangeOTP(ctx context.Context, data EmailChangeOTPData) bool
}

// EmailVerificationData feeds the verify-email template
type EmailVerificationData struct {
	Email      string
	Username   string
	Token      string
	ExpiryTime string
}

// PasswordResetData feeds the reset-password template
type PasswordResetData struct {
	Email      string
	Username   string
	Token      string
	ExpiryTime string
}

// PasswordChangedData feeds the password-changed notice
type PasswordChangedData struct {
	Email      string
	Username   string
	ChangedAt  string
	DeviceInfo string
}

// AccountDeletionData feeds the deletion-scheduled notice
type AccountDeletionData struct {
	Email      string
	Username   string
	DeleteDate string
}

// EmailChangeOTPData feeds the email-change OTP message
type EmailChangeOTPData struct {
	Email      string
	Username   string
	OTP        string
	ExpiryTime string
}
