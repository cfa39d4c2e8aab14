package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tradejournal/internal/delivery/http/dto"
	"tradejournal/internal/domain"
	"tradejournal/internal/middleware"
	"tradejournal/internal/service"
)

const sessionCookieName = "session"

// AuthHandler handles authentication and session endpoints
type AuthHandler struct {
	auth          *service.AuthService
	secureCookies bool
	refreshTTL    time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *service.AuthService, secureCookies bool, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		secureCookies: secureCookies,
		refreshTTL:    refreshTTL,
	}
}

// setSessionCookie installs the opaque session descriptor cookie
func (h *AuthHandler) setSessionCookie(c echo.Context, value string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.refreshTTL.Seconds()),
	})
}

// clearSessionCookie deletes the session cookie
func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}

// sessionCookieValue returns the raw descriptor, empty when absent
func sessionCookieValue(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Register handles user registration
// POST /auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return CreatedResponse(c, "Registration successful", user)
}

// Login handles credential login. A pending-deletion account gets a
// recovery token instead of a session.
// POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.Request().Context(), req, c.Request().UserAgent(), c.RealIP())
	if err != nil {
		return err
	}

	if result.Status == service.LoginRecoveryNeeded {
		return c.JSON(http.StatusOK, Response{
			Status:  "success",
			Message: "Account is scheduled for deletion; recover it to log in",
			Code:    domain.CodeRecoveryNeeded,
			Data: echo.Map{
				"recovery_token":           result.Recovery.Token,
				"recovery_expires_minutes": int(domain.AccountRecoveryTTL.Minutes()),
				"deletion_in_days":         int(result.Recovery.RecoveryWindow.Hours() / 24),
			},
		})
	}

	grant := result.Session
	descriptor := domain.SessionDescriptor{SID: grant.SessionID, RT: grant.RefreshToken}
	h.setSessionCookie(c, descriptor.Encode())

	return SuccessMessageResponse(c, "Login successful", echo.Map{
		"user":         grant.User,
		"access_token": grant.AccessToken,
	})
}

// Logout revokes the calling session and clears the cookie. The cookie
// is cleared even when the descriptor fails verification, so a broken
// cookie cannot wedge the client.
// POST /auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	raw := sessionCookieValue(c)
	h.clearSessionCookie(c)

	if err := h.auth.Logout(c.Request().Context(), user, raw); err != nil {
		return err
	}

	return SuccessMessageResponse(c, "Logout successful", nil)
}

// Refresh mints a new access token from the session cookie. On an
// invalid session the cookie is cleared before the 401 goes out.
// POST /auth/refresh
func (h *AuthHandler) Refresh(c echo.Context) error {
	result, err := h.auth.RefreshAccessToken(c.Request().Context(), sessionCookieValue(c))
	if err != nil {
		h.clearSessionCookie(c)
		return err
	}

	return SuccessResponse(c, echo.Map{
		"user":         result.User,
		"access_token": result.AccessToken,
	})
}

// ChangePassword handles an authenticated password change
// POST /auth/change-password
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req dto.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.auth.ChangePassword(c.Request().Context(), user, req, sessionCookieValue(c), c.Request().UserAgent()); err != nil {
		return err
	}

	return SuccessMessageResponse(c, "Password changed successfully", nil)
}

// ForgotPassword issues a password reset link
// POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req dto.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.auth.ForgotPassword(c.Request().Context(), req); err != nil {
		return err
	}

	return SuccessMessageResponse(c, "Password reset email sent", nil)
}

// ResetPassword redeems a reset token from the query string
// POST /auth/reset-password?token=...
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return domain.NewValidationError("Reset token is required")
	}

	var req dto.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.auth.ResetPassword(c.Request().Context(), token, req, c.Request().UserAgent()); err != nil {
		return err
	}

	return SuccessMessageResponse(c, "Password reset successfully", nil)
}

// SendVerification issues an email verification link for the caller
// POST /auth/send-verification
func (h *AuthHandler) SendVerification(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	if err := h.auth.SendEmailVerification(c.Request().Context(), user); err != nil {
		return err
	}

	return SuccessMessageResponse(c, "Verification email sent", nil)
}

// VerifyEmail redeems a verification token from the query string
// GET /auth/verify-email?token=...
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return domain.NewValidationError("Verification token is required")
	}

	if err := h.auth.VerifyEmail(c.Request().Context(), token); err != nil {
		return err
	}

	return SuccessMessageResponse(c, "Email verified successfully", nil)
}

// RecoverAccount cancels a pending deletion via recovery token
// POST /auth/recover?token=...
func (h *AuthHandler) RecoverAccount(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return domain.NewValidationError("Recovery token is required")
	}

	if err := h.auth.RecoverAccount(c.Request().Context(), token); err != nil {
		return err
	}

	return SuccessMessageResponse(c, "Account recovered successfully", nil)
}
