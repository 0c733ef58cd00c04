package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	deliverycontext "signup/internal/delivery/context"
	"signup/internal/delivery/http/response"
	domainerrors "signup/internal/domain/errors"
	"signup/internal/errors"
)

const internalErrorMessage = "Error interno del servidor"

// statusByCode maps every domain discriminant to its HTTP status. All
// registration failures are reported as bad requests.
var statusByCode = map[string]int{
	domainerrors.CodeDuplicateEmail:       http.StatusBadRequest,
	domainerrors.CodeInvalidEmailFormat:   http.StatusBadRequest,
	domainerrors.CodePersistenceFailure:   http.StatusBadRequest,
	domainerrors.CodeTokenIssuanceFailure: http.StatusBadRequest,
	domainerrors.CodePasswordHashFailure:  http.StatusBadRequest,
	domainerrors.CodeValidationFailed:     http.StatusBadRequest,
	domainerrors.CodeInvalidInput:         http.StatusBadRequest,
}

// StatusFor returns the HTTP status for a domain discriminant, and false when
// the code is unknown.
func StatusFor(code string) (int, bool) {
	status, ok := statusByCode[code]

	return status, ok
}

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if status, ok := StatusFor(appErr.ErrorCode()); ok {
			if appErr.Details() != "" {
				logger.Debug("Request failed",
					slog.String("code", appErr.ErrorCode()),
					slog.String("details", appErr.Details()),
				)
			}
			_ = response.Error(c, status, appErr.Message())

			return
		}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}

		_ = response.Error(c, httpErr.Code, message)

		return
	}

	logger.Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	_ = response.Error(c, http.StatusInternalServerError, internalErrorMessage)
}
