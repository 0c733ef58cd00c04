// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	deliverycontext "signup/internal/delivery/context"
	"signup/internal/delivery/http/response"
	"signup/internal/delivery/http/validator"
	domainerrors "signup/internal/domain/errors"
	"signup/internal/errors"
	"signup/internal/usecase"
)

// PhoneRequest is one phone in a registration request. Only column widths
// are enforced here.
type PhoneRequest struct {
	Number      string `json:"number" validate:"max=20"`
	CityCode    string `json:"citycode" validate:"max=10"`
	CountryCode string `json:"contrycode" validate:"max=10"`
}

// RegisterUserRequest is the body of POST /api/register. Email carries no
// tag: RegisterUser checks uniqueness before shape and owns both rejections.
type RegisterUserRequest struct {
	Name     string         `json:"name" validate:"max=100"`
	Email    string         `json:"email"`
	Password string         `json:"password" validate:"required,max=72"`
	Phones   []PhoneRequest `json:"phones" validate:"omitempty,dive"`
}

// RegisterUserResponse is the body returned for a created user.
type RegisterUserResponse struct {
	ID        uuid.UUID `json:"id"`
	Created   time.Time `json:"created"`
	Modified  time.Time `json:"modified"`
	LastLogin time.Time `json:"lastLogin"`
	Token     string    `json:"token"`
	IsActive  bool      `json:"active"`
}

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: logger,
	}
}

// RegisterUser handles the user registration request.
func (h *UserHandler) RegisterUser(c echo.Context) error {
	ctx := c.Request().Context()
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)

	var req RegisterUserRequest
	if err := c.Bind(&req); err != nil {
		logger.Debug("Failed to bind registration request", slog.Any("error", err))

		return domainerrors.ErrInvalidInput
	}

	if err := c.Validate(&req); err != nil {
		fields := validator.FieldErrors(err)
		if fields == nil {
			return errors.WithStack(err)
		}

		return domainerrors.ErrValidationFailed.WithDetails(strings.Join(fields, ", "))
	}

	output, err := h.uc.RegisterUser(ctx, toRegisterUserInput(&req))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, RegisterUserResponse{
		ID:        output.ID,
		Created:   output.Created,
		Modified:  output.Modified,
		LastLogin: output.LastLogin,
		Token:     output.Token,
		IsActive:  output.IsActive,
	})
}

func toRegisterUserInput(req *RegisterUserRequest) *usecase.RegisterUserInput {
	phones := make([]usecase.PhoneInput, 0, len(req.Phones))
	for _, p := range req.Phones {
		phones = append(phones, usecase.PhoneInput{
			Number:      p.Number,
			CityCode:    p.CityCode,
			CountryCode: p.CountryCode,
		})
	}

	return &usecase.RegisterUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phones:   phones,
	}
}
