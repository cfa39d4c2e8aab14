package http

import (
	"github.com/labstack/echo/v4"

	"tradejournal/internal/delivery/http/dto"
	"tradejournal/internal/domain"
	"tradejournal/internal/middleware"
	"tradejournal/internal/service"
)

// PlaybookHandler handles strategy-tag endpoints
type PlaybookHandler struct {
	playbooks *service.PlaybookService
}

// NewPlaybookHandler creates a new PlaybookHandler
func NewPlaybookHandler(playbooks *service.PlaybookService) *PlaybookHandler {
	return &PlaybookHandler{playbooks: playbooks}
}

// Create adds a new playbook
// POST /playbooks
func (h *PlaybookHandler) Create(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req dto.CreatePlaybookRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	playbook, err := h.playbooks.Create(c.Request().Context(), user.ID, req)
	if err != nil {
		return err
	}
	return CreatedResponse(c, "Playbook created successfully", playbook)
}

// GetByID returns one playbook
// GET /playbooks/:id
func (h *PlaybookHandler) GetByID(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	playbook, err := h.playbooks.GetByID(c.Request().Context(), id, user.ID)
	if err != nil {
		return err
	}
	return SuccessResponse(c, playbook)
}

// Update applies partial playbook changes
// PATCH /playbooks/:id
func (h *PlaybookHandler) Update(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdatePlaybookRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	playbook, err := h.playbooks.Update(c.Request().Context(), id, user.ID, req)
	if err != nil {
		return err
	}
	return SuccessMessageResponse(c, "Playbook updated successfully", playbook)
}

// Delete removes a playbook; trades it was linked to are untouched
// DELETE /playbooks/:id
func (h *PlaybookHandler) Delete(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.playbooks.Delete(c.Request().Context(), id, user.ID); err != nil {
		return err
	}
	return SuccessMessageResponse(c, "Playbook deleted successfully", nil)
}

// List returns the caller's playbooks, basic or detailed per the view
// query
// GET /playbooks?view=basic|detailed
func (h *PlaybookHandler) List(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var query dto.PlaybookListQuery
	if err := c.Bind(&query); err != nil {
		return domain.NewValidationError("Invalid query parameters")
	}
	if err := c.Validate(&query); err != nil {
		return err
	}
	query.Normalize()

	if query.View == "basic" {
		playbooks, err := h.playbooks.ListBasic(c.Request().Context(), user.ID)
		if err != nil {
			return err
		}
		return SuccessResponse(c, playbooks)
	}

	page, err := h.playbooks.ListDetailed(c.Request().Context(), user.ID, query)
	if err != nil {
		return err
	}
	return PagedResponse(c, page)
}
