package http

import (
	"github.com/labstack/echo/v4"

	"tradejournal/internal/delivery/http/dto"
	"tradejournal/internal/domain"
	"tradejournal/internal/middleware"
	"tradejournal/internal/service"
)

// UserHandler handles profile endpoints
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile returns the caller's profile
// GET /users/me
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.users.GetProfile(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return SuccessResponse(c, profile)
}

// UpdateUsername renames the caller
// PATCH /users/me/username
func (h *UserHandler) UpdateUsername(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req dto.UpdateUsernameRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.users.UpdateUsername(c.Request().Context(), user, req)
	if err != nil {
		return err
	}
	return SuccessMessageResponse(c, "Username updated successfully", updated)
}

// RequestEmailChange sends an OTP to the new address
// POST /users/me/email
func (h *UserHandler) RequestEmailChange(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req dto.UpdateEmailRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.users.SendEmailChangeOTP(c.Request().Context(), user, req); err != nil {
		return err
	}
	return SuccessMessageResponse(c, "OTP sent to the new email address", nil)
}

// ConfirmEmailChange redeems the OTP and applies the new address
// POST /users/me/email/confirm
func (h *UserHandler) ConfirmEmailChange(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req dto.ConfirmEmailChangeRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.users.ConfirmEmailChange(c.Request().Context(), user, req)
	if err != nil {
		return err
	}
	return SuccessMessageResponse(c, "Email updated successfully", updated)
}

// DeleteAccount schedules the caller's account for deletion
// DELETE /users/me
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req dto.DeleteAccountRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.users.DeleteAccount(c.Request().Context(), user, req); err != nil {
		return err
	}
	return SuccessMessageResponse(c, "Account scheduled for deletion", nil)
}
