package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Path string `json:"path"`
	Info string `json:"info"`
}

var conflicts = []error{
	order.ErrInvalidTransition,
	order.ErrNotReady,
	order.ErrNotDelivered,
	services.ErrNoRider,
	services.ErrRiderUnavailable,
	services.ErrRiderAtCapacity,
	commands.ErrDispatchAlreadyRunning,
	commands.ErrFlowSweepAlreadyRunning,
}

var badInput = []error{
	order.ErrEmptyOrder,
	errs.ErrValueIsInvalid,
	errs.ErrValueIsRequired,
	errs.ErrValueIsOutOfRange,
}

// StatusFor maps a use case error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, order.ErrInvalidCode):
		return http.StatusUnprocessableEntity
	case isAny(err, conflicts):
		return http.StatusConflict
	case isAny(err, badInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func renderError(err error) Error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return Error{Code: httpErr.Code, Message: fmt.Sprint(httpErr.Message)}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]ErrorDetail, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details = append(details, ErrorDetail{Path: fieldPath(fieldErr), Info: validationMessage(fieldErr)})
		}
		return Error{Code: http.StatusBadRequest, Message: "Validation failed", Details: details}
	}

	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		return Error{Code: code, Message: "Internal server error"}
	}
	return Error{Code: code, Message: err.Error()}
}

func newErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		body := renderError(err)
		if body.Code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method, "path", c.Path(), "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(body.Code)
		} else {
			err = c.JSON(body.Code, body)
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "failed to write error response", "error", err)
		}
	}
}
