package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/go-playground/validator.v9"

	"github.com/roadwatch/hazard-service/internal/auth"
	"github.com/roadwatch/hazard-service/internal/config"
	"github.com/roadwatch/hazard-service/internal/domain"
	"github.com/roadwatch/hazard-service/internal/observability"
	"github.com/roadwatch/hazard-service/internal/repository"
	apperrors "github.com/roadwatch/hazard-service/pkg/util"
)

// AuthService resolves external identities into local users and sessions.
type AuthService struct {
	users          repository.UserRepository
	tokenMgr       *auth.TokenManager
	gatewayKeyHash string
	validate       *validator.Validate
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:          users,
		tokenMgr:       auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTLMinutes),
		gatewayKeyHash: cfg.GatewayKeyHash,
		validate:       newValidator(),
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

type signInInput struct {
	Email string `json:"email" validate:"required,email,max=320"`
	Name  string `json:"name" validate:"max=200"`
}

// SignIn is called by the identity provider gateway after an external login.
// The user is matched by normalized email or created as a DRIVER.
func (s *AuthService) SignIn(ctx context.Context, gatewayKey string, identity domain.ExternalIdentity) (*domain.User, *domain.Session, error) {
	if s.gatewayKeyHash == "" || gatewayKey == "" {
		return nil, nil, apperrors.NewUnauthorized("gateway key required")
	}
	if err := auth.CompareGatewayKey(s.gatewayKeyHash, gatewayKey); err != nil {
		return nil, nil, apperrors.NewUnauthorized("invalid gateway key")
	}

	input := signInInput{
		Email: strings.ToLower(strings.TrimSpace(identity.Email)),
		Name:  strings.TrimSpace(identity.Name),
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, nil, validationFailure("invalid identity", err)
	}

	user, err := s.findOrCreate(ctx, input, identity.Provider)
	if err != nil {
		return nil, nil, err
	}
	if user.Blocked {
		return nil, nil, apperrors.NewForbidden("account is blocked")
	}

	session, err := s.tokenMgr.Issue(user)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	return user, session, nil
}

func (s *AuthService) findOrCreate(ctx context.Context, input signInInput, provider string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	name := input.Name
	if name == "" {
		name = strings.SplitN(input.Email, "@", 2)[0]
	}
	user = &domain.User{
		Name:  name,
		Email: input.Email,
		Role:  domain.RoleDriver,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// a concurrent sign-in created the row first
			existing, getErr := s.users.GetByEmail(ctx, input.Email)
			if getErr != nil {
				return nil, apperrors.NewStoreUnavailable(getErr)
			}
			return existing, nil
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}

	observability.LoggerFromContext(ctx).Info("user created on first sign-in",
		zap.String("user_id", user.ID),
		zap.String("provider", provider))
	return user, nil
}

// Me returns the resolved identity of actor.
func (s *AuthService) Me(_ context.Context, actor *domain.User) (*domain.User, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return actor, nil
}
