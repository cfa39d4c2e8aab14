package http

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tradejournal/internal/delivery/http/dto"
	"tradejournal/internal/domain"
	"tradejournal/internal/middleware"
	"tradejournal/internal/service"
)

// AccountHandler handles capital-pool endpoints
type AccountHandler struct {
	accounts *service.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// pathUUID parses a route parameter as a UUID
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("Invalid " + name + " format")
	}
	return id, nil
}

// Create adds a new account
// POST /accounts
func (h *AccountHandler) Create(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req dto.CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.accounts.Create(c.Request().Context(), user.ID, req)
	if err != nil {
		return err
	}
	return CreatedResponse(c, "Account created successfully", account)
}

// GetByID returns one account
// GET /accounts/:id
func (h *AccountHandler) GetByID(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	account, err := h.accounts.GetByID(c.Request().Context(), id, user.ID)
	if err != nil {
		return err
	}
	return SuccessResponse(c, account)
}

// Update applies partial account changes
// PATCH /accounts/:id
func (h *AccountHandler) Update(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.accounts.Update(c.Request().Context(), id, user.ID, req)
	if err != nil {
		return err
	}
	return SuccessMessageResponse(c, "Account updated successfully", account)
}

// Archive hides the account
// POST /accounts/:id/archive
func (h *AccountHandler) Archive(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.accounts.Archive(c.Request().Context(), id, user.ID); err != nil {
		return err
	}
	return SuccessMessageResponse(c, "Account archived successfully", nil)
}

// Unarchive restores an archived account
// POST /accounts/:id/unarchive
func (h *AccountHandler) Unarchive(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.accounts.Unarchive(c.Request().Context(), id, user.ID); err != nil {
		return err
	}
	return SuccessMessageResponse(c, "Account unarchived successfully", nil)
}

// Delete permanently removes an archived account
// DELETE /accounts/:id
func (h *AccountHandler) Delete(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.accounts.Delete(c.Request().Context(), id, user.ID); err != nil {
		return err
	}
	return SuccessMessageResponse(c, "Account deleted successfully", nil)
}

// List returns the caller's accounts with trade aggregates
// GET /accounts
func (h *AccountHandler) List(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var query dto.ListQuery
	if err := c.Bind(&query); err != nil {
		return domain.NewValidationError("Invalid query parameters")
	}
	if err := c.Validate(&query); err != nil {
		return err
	}

	page, err := h.accounts.List(c.Request().Context(), user.ID, query)
	if err != nil {
		return err
	}
	return PagedResponse(c, page)
}
