package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"tradejournal/internal/domain"
)

// Response is the standardized API envelope
type Response struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Data    interface{}    `json:"data,omitempty"`
	Paging  *domain.Paging `json:"paging,omitempty"`
	Errors  interface{}    `json:"errors,omitempty"`
	Code    string         `json:"code,omitempty"`
}

// SuccessResponse sends a success response
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

// SuccessMessageResponse sends a success response with a message
func SuccessMessageResponse(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// PagedResponse sends a success response for one page of a listing
func PagedResponse[T any](c echo.Context, page *domain.Pageable[T]) error {
	return c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   page.Data,
		Paging: &page.Paging,
	})
}

// CreatedResponse sends a 201 Created response
func CreatedResponse(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// fieldError is one validation failure in the errors list
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validationMessages renders validator failures as field/message pairs
func validationMessages(errs validator.ValidationErrors) []fieldError {
	out := make([]fieldError, len(errs))
	for i, fe := range errs {
		msg := "is invalid"
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "email":
			msg = "must be a valid email address"
		case "min":
			msg = "must be at least " + fe.Param()
		case "max":
			msg = "must be at most " + fe.Param()
		case "len":
			msg = "must be exactly " + fe.Param() + " characters"
		case "oneof":
			msg = "must be one of: " + fe.Param()
		case "url":
			msg = "must be a valid URL"
		case "gt":
			msg = "must be greater than " + fe.Param()
		case "gte":
			msg = "must be at least " + fe.Param()
		case "lte":
			msg = "must be at most " + fe.Param()
		case "numeric":
			msg = "must be numeric"
		case "riskfraction":
			msg = "must be between 0 (exclusive) and 1 with at most 4 decimal places"
		}
		out[i] = fieldError{Field: fe.Field(), Message: msg}
	}
	return out
}

// HTTPErrorHandler maps every error to the response envelope. Business
// errors carry their own status and stable code; anything unrecognized
// is masked to a plain 500.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr *domain.AppError
	var validationErrs validator.ValidationErrors
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &appErr):
		_ = c.JSON(appErr.Status, Response{
			Status:  "error",
			Message: appErr.Message,
			Code:    appErr.Code,
		})
	case errors.As(err, &validationErrs):
		_ = c.JSON(http.StatusBadRequest, Response{
			Status:  "error",
			Message: "Validation failed",
			Code:    domain.CodeValidationFailed,
			Errors:  validationMessages(validationErrs),
		})
	case errors.As(err, &httpErr):
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		_ = c.JSON(httpErr.Code, Response{
			Status:  "error",
			Message: msg,
		})
	default:
		slog.Error("unhandled request error",
			"error", err,
			"method", c.Request().Method,
			"path", c.Path(),
		)
		_ = c.JSON(http.StatusInternalServerError, Response{
			Status:  "error",
			Message: "Internal server error",
		})
	}
}
