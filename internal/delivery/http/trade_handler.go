package http

import (
	"github.com/labstack/echo/v4"

	"tradejournal/internal/delivery/http/dto"
	"tradejournal/internal/domain"
	"tradejournal/internal/middleware"
	"tradejournal/internal/service"
)

// TradeHandler handles trade lifecycle endpoints
type TradeHandler struct {
	trades *service.TradeService
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(trades *service.TradeService) *TradeHandler {
	return &TradeHandler{trades: trades}
}

// Execute opens a new Running trade on an account
// POST /accounts/:id/trades
func (h *TradeHandler) Execute(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	accountID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.CreateTradeRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	trade, err := h.trades.ExecuteTrade(c.Request().Context(), user.ID, accountID, req)
	if err != nil {
		return err
	}
	return CreatedResponse(c, "Trade executed successfully", trade)
}

// GetByID returns one trade with its playbook links
// GET /trades/:id
func (h *TradeHandler) GetByID(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	trade, err := h.trades.GetTradeByID(c.Request().Context(), id, user.ID)
	if err != nil {
		return err
	}
	return SuccessResponse(c, trade)
}

// Close finalizes a Running trade
// PATCH /trades/:id/closed
func (h *TradeHandler) Close(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.CloseTradeRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	trade, err := h.trades.CloseTrade(c.Request().Context(), id, user.ID, req)
	if err != nil {
		return err
	}
	return SuccessMessageResponse(c, "Trade closed successfully", trade)
}

// Update applies partial trade changes
// PATCH /trades/:id
func (h *TradeHandler) Update(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateTradeRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	trade, err := h.trades.UpdateTrade(c.Request().Context(), id, user.ID, req)
	if err != nil {
		return err
	}
	return SuccessMessageResponse(c, "Trade updated successfully", trade)
}

// Delete removes a Closed trade
// DELETE /trades/:id
func (h *TradeHandler) Delete(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.trades.DeleteTrade(c.Request().Context(), id, user.ID); err != nil {
		return err
	}
	return SuccessMessageResponse(c, "Trade deleted successfully", nil)
}

// List returns a filtered page of an account's trades
// GET /accounts/:id/trades
func (h *TradeHandler) List(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	accountID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var query dto.TradeListQuery
	if err := c.Bind(&query); err != nil {
		return domain.NewValidationError("Invalid query parameters")
	}
	if err := c.Validate(&query); err != nil {
		return err
	}

	page, err := h.trades.GetAllTrades(c.Request().Context(), user.ID, accountID, query)
	if err != nil {
		return err
	}
	return PagedResponse(c, page)
}
