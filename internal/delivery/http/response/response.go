// Package response writes the JSON bodies of the HTTP API.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request. The message is always
// under the single key "mensaje".
type ErrorResponse struct {
	Message string `json:"mensaje"`
}

// Success writes data as the whole response body.
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, data)
}

// Created writes data with 201 Created.
func Created(c echo.Context, data any) error {
	return Success(c, http.StatusCreated, data)
}

// Error writes message under the fixed error key. HEAD requests get headers only.
func Error(c echo.Context, statusCode int, message string) error {
	if c.Request().Method == http.MethodHead {
		return c.NoContent(statusCode)
	}

	return c.JSON(statusCode, ErrorResponse{Message: message})
}
