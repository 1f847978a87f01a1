package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/roadwatch/hazard-service/internal/api/dto"
	"github.com/roadwatch/hazard-service/internal/auth"
	"github.com/roadwatch/hazard-service/internal/domain"
	"github.com/roadwatch/hazard-service/internal/service"
	apperrors "github.com/roadwatch/hazard-service/pkg/util"
)

// GatewayKeyHeader carries the identity provider gateway's shared secret.
const GatewayKeyHeader = "X-Gateway-Key"

// AuthHandler exposes sign-in and identity endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// SignIn handles POST /auth/sign-in.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, session, err := h.auth.SignIn(c.UserContext(), c.Get(GatewayKeyHeader), domain.ExternalIdentity{
		Email:    req.Email,
		Name:     req.Name,
		Provider: req.Provider,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.auth.Me(c.UserContext(), auth.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
