package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/hazard-service/internal/auth"
	"github.com/roadwatch/hazard-service/internal/config"
	"github.com/roadwatch/hazard-service/internal/domain"
	"github.com/roadwatch/hazard-service/internal/repository/memory"
	apperrors "github.com/roadwatch/hazard-service/pkg/util"
)

const testGatewayKey = "gateway-secret"

func newAuthService(t *testing.T, store *memory.Store) *AuthService {
	t.Helper()
	hash, err := auth.HashGatewayKey(testGatewayKey, 4)
	require.NoError(t, err)
	return NewAuthService(config.AuthConfig{
		JWTSecret:         "jwt-secret",
		SessionTTLMinutes: 60,
		GatewayKeyHash:    hash,
	}, store.Users())
}

func TestSignIn_CreatesDriverOnFirstLogin(t *testing.T) {
	store := memory.NewStore()
	svc := newAuthService(t, store)

	user, session, err := svc.SignIn(context.Background(), testGatewayKey, domain.ExternalIdentity{
		Email:    "  Driver@Example.COM ",
		Name:     "Driver",
		Provider: "google",
	})
	require.NoError(t, err)
	assert.Equal(t, "driver@example.com", user.Email)
	assert.Equal(t, domain.RoleDriver, user.Role)
	assert.Zero(t, user.Points)
	assert.False(t, user.Blocked)

	claims, err := svc.TokenManager().ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	again, _, err := svc.SignIn(context.Background(), testGatewayKey, domain.ExternalIdentity{Email: "driver@example.com"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestSignIn_KeepsExistingRole(t *testing.T) {
	store := memory.NewStore()
	moderator := store.SeedUser(domain.User{Name: "M", Email: "m@example.com", Role: domain.RoleModerator})
	svc := newAuthService(t, store)

	user, session, err := svc.SignIn(context.Background(), testGatewayKey, domain.ExternalIdentity{Email: "M@example.com"})
	require.NoError(t, err)
	assert.Equal(t, moderator.ID, user.ID)
	assert.Equal(t, domain.RoleModerator, session.Role)
}

func TestSignIn_DefaultsNameFromEmail(t *testing.T) {
	svc := newAuthService(t, memory.NewStore())

	user, _, err := svc.SignIn(context.Background(), testGatewayKey, domain.ExternalIdentity{Email: "lan.nguyen@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "lan.nguyen", user.Name)
}

func TestSignIn_Failures(t *testing.T) {
	store := memory.NewStore()
	store.SeedUser(domain.User{Name: "B", Email: "blocked@example.com", Role: domain.RoleDriver, Blocked: true})
	svc := newAuthService(t, store)

	cases := []struct {
		name     string
		key      string
		identity domain.ExternalIdentity
		code     string
	}{
		{"missing key", "", domain.ExternalIdentity{Email: "a@example.com"}, apperrors.CodeUnauthorized},
		{"wrong key", "nope", domain.ExternalIdentity{Email: "a@example.com"}, apperrors.CodeUnauthorized},
		{"missing email", testGatewayKey, domain.ExternalIdentity{}, apperrors.CodeValidationFailed},
		{"malformed email", testGatewayKey, domain.ExternalIdentity{Email: "not-an-email"}, apperrors.CodeValidationFailed},
		{"blocked", testGatewayKey, domain.ExternalIdentity{Email: "blocked@example.com"}, apperrors.CodeForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.SignIn(context.Background(), tc.key, tc.identity)
			assert.True(t, apperrors.HasCode(err, tc.code), "got %v", err)
		})
	}
}

func TestSignIn_DisabledWithoutGatewayHash(t *testing.T) {
	svc := NewAuthService(config.AuthConfig{JWTSecret: "s", SessionTTLMinutes: 10}, memory.NewStore().Users())
	_, _, err := svc.SignIn(context.Background(), "anything", domain.ExternalIdentity{Email: "a@example.com"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestMe(t *testing.T) {
	svc := newAuthService(t, memory.NewStore())

	_, err := svc.Me(context.Background(), nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	actor := &domain.User{ID: "u1", Role: domain.RoleDriver}
	got, err := svc.Me(context.Background(), actor)
	require.NoError(t, err)
	assert.Same(t, actor, got)
}
