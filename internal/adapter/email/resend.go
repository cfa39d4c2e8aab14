// Package email sends transactional mail through the Resend REST API.
// Every send is best effort: failures are logged and reported as false,
// never as an error, so a broken mail provider cannot fail a request.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"tradejournal/internal/domain"
)

const defaultBaseURL = "https://api.resend.com"

// Resend implements the domain.Notifier interface
type Resend struct {
	baseURL     string
	apiKey      string
	fromName    string
	fromAddress string
	frontendURL string
	httpClient  *http.Client
}

// NewResend creates a Resend notifier
func NewResend(apiKey, fromName, fromAddress, frontendURL string) domain.Notifier {
	return &Resend{
		baseURL:     defaultBaseURL,
		apiKey:      apiKey,
		fromName:    fromName,
		fromAddress: fromAddress,
		frontendURL: frontendURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID string `json:"id"`
}

// send posts one email and reports success
func (r *Resend) send(ctx context.Context, to, subject, html string) bool {
	payload := sendRequest{
		From:    fmt.Sprintf("%s <%s>", r.fromName, r.fromAddress),
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal email payload", "error", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		slog.Error("failed to build email request", "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		slog.Error("failed to send email", "subject", subject, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		slog.Error("email provider rejected send",
			"subject", subject,
			"status", resp.StatusCode,
			"response", string(raw),
		)
		return false
	}

	var result sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		slog.Info("email sent", "subject", subject, "id", result.ID)
	}
	return true
}

// SendEmailVerification sends the verify-your-email link
func (r *Resend) SendEmailVerification(ctx context.Context, data domain.EmailVerificationData) bool {
	link := fmt.Sprintf("%s/auth/email/verify?token=%s", r.frontendURL, data.Token)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Verify your email address by opening the link below. It expires at %s.</p><p><a href="%s">Verify email</a></p>`,
		data.Username, data.ExpiryTime, link,
	)
	return r.send(ctx, data.Email, "Verify Your Email Address", html)
}

// SendPasswordReset sends the reset-password link
func (r *Resend) SendPasswordReset(ctx context.Context, data domain.PasswordResetData) bool {
	link := fmt.Sprintf("%s/forgot-password/reset?token=%s", r.frontendURL, data.Token)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Reset your password by opening the link below. It expires at %s.</p><p><a href="%s">Reset password</a></p>`,
		data.Username, data.ExpiryTime, link,
	)
	return r.send(ctx, data.Email, "Reset Your Password", html)
}

// SendPasswordChanged sends the password-changed notice
func (r *Resend) SendPasswordChanged(ctx context.Context, data domain.PasswordChangedData) bool {
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Your password was changed at %s from %s. If this wasn't you, reset your password immediately.</p>`,
		data.Username, data.ChangedAt, data.DeviceInfo,
	)
	return r.send(ctx, data.Email, "Your Password Has Been Changed", html)
}

// SendAccountDeletion sends the deletion-scheduled notice
func (r *Resend) SendAccountDeletion(ctx context.Context, data domain.AccountDeletionData) bool {
	loginURL := r.frontendURL + "/auth/login"
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Your account is scheduled for deletion on %s. Log in before then to recover it.</p><p><a href="%s">Log in</a></p>`,
		data.Username, data.DeleteDate, loginURL,
	)
	return r.send(ctx, data.Email, "You Requested Account Deletion", html)
}

// SendEmailChangeOTP sends the one-time code confirming a new address
func (r *Resend) SendEmailChangeOTP(ctx context.Context, data domain.EmailChangeOTPData) bool {
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Your email change code is <strong>%s</strong>. It expires at %s.</p>`,
		data.Username, data.OTP, data.ExpiryTime,
	)
	return r.send(ctx, data.Email, "Confirm Your New Email Address", html)
}
