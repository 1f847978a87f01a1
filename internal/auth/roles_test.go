package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/hazard-service/internal/domain"
	apperrors "github.com/roadwatch/hazard-service/pkg/util"
)

func TestPolicy_Authorize(t *testing.T) {
	policy, err := NewPolicy(false)
	require.NoError(t, err)

	driver := &domain.User{ID: "d", Role: domain.RoleDriver}
	moderator := &domain.User{ID: "m", Role: domain.RoleModerator}
	admin := &domain.User{ID: "a", Role: domain.RoleAdmin}

	cases := []struct {
		name  string
		actor *domain.User
		perm  Permission
		code  string
	}{
		{"driver submits", driver, PermSubmitReport, ""},
		{"driver lists own", driver, PermListOwnReports, ""},
		{"driver lists types", driver, PermListReportTypes, ""},
		{"driver cannot list all", driver, PermListAllReports, apperrors.CodeForbidden},
		{"driver cannot moderate", driver, PermModerateReport, apperrors.CodeForbidden},
		{"moderator moderates", moderator, PermModerateReport, ""},
		{"moderator lists all", moderator, PermListAllReports, ""},
		{"moderator submits", moderator, PermSubmitReport, ""},
		{"admin cannot moderate by default", admin, PermModerateReport, apperrors.CodeForbidden},
		{"admin submits", admin, PermSubmitReport, ""},
		{"anonymous", nil, PermListOwnReports, apperrors.CodeUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := policy.Authorize(tc.actor, tc.perm)
			if tc.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.HasCode(err, tc.code), "got %v", err)
		})
	}
}

func TestPolicy_AdminCanModerateWhenEnabled(t *testing.T) {
	policy, err := NewPolicy(true)
	require.NoError(t, err)

	admin := &domain.User{ID: "a", Role: domain.RoleAdmin}
	assert.NoError(t, policy.Authorize(admin, PermModerateReport))
	assert.NoError(t, policy.Authorize(admin, PermListAllReports))
}

func TestPolicy_BlockedUsersCannotWrite(t *testing.T) {
	policy, err := NewPolicy(false)
	require.NoError(t, err)

	blockedDriver := &domain.User{ID: "d", Role: domain.RoleDriver, Blocked: true}
	blockedModerator := &domain.User{ID: "m", Role: domain.RoleModerator, Blocked: true}

	assert.True(t, apperrors.HasCode(policy.Authorize(blockedDriver, PermSubmitReport), apperrors.CodeForbidden))
	assert.True(t, apperrors.HasCode(policy.Authorize(blockedModerator, PermModerateReport), apperrors.CodeForbidden))
	assert.NoError(t, policy.Authorize(blockedDriver, PermListOwnReports))
}

func TestGatewayKey(t *testing.T) {
	hashed, err := HashGatewayKey("gateway-secret", 4)
	require.NoError(t, err)

	assert.NoError(t, CompareGatewayKey(hashed, "gateway-secret"))
	assert.Error(t, CompareGatewayKey(hashed, "nope"))
}
