package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/domain"
)

func performError(t *testing.T, err error) (int, Response) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(err, c)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestErrorHandler_AppError(t *testing.T) {
	code, body := performError(t, domain.NewNotFound("Trade not found", domain.CodeTradeNotFound))

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "Trade not found", body.Message)
	assert.Equal(t, domain.CodeTradeNotFound, body.Code)
}

func TestErrorHandler_WrappedAppError(t *testing.T) {
	wrapped := errors.Join(domain.NewInvalidState("Trade is not running", domain.CodeTradeNotRunning))
	code, body := performError(t, wrapped)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, domain.CodeTradeNotRunning, body.Code)
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	code, body := performError(t, echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token"))

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid or expired token", body.Message)
}

func TestErrorHandler_UnknownErrorMasked(t *testing.T) {
	code, body := performError(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", body.Message)
	assert.NotContains(t, body.Message, "connection refused")
}
