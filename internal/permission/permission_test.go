package permission

import (
	"testing"

	"cofactor-club/internal/model/user"
	"cofactor-club/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRoleLevel(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		expected int
	}{
		{"admin", user.RoleAdmin, RoleLevelAdmin},
		{"staff", user.RoleStaff, RoleLevelStaff},
		{"student", user.RoleStudent, RoleLevelMember},
		{"pending staff", user.RolePendingStaff, RoleLevelMember},
		{"lower case admin", "admin", RoleLevelUnknown},
		{"empty", "", RoleLevelUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetRoleLevel(tt.role))
		})
	}
}

func TestActor(t *testing.T) {
	tests := []struct {
		name           string
		actor          Actor
		wantAdmin      bool
		wantPrivileged bool
	}{
		{"零值调用者", Actor{}, false, false},
		{"无用户ID的 admin 角色", Actor{Role: user.RoleAdmin}, false, false},
		{"admin", Actor{UserID: 1, Role: user.RoleAdmin}, true, true},
		{"staff", Actor{UserID: 2, Role: user.RoleStaff}, false, true},
		{"pending staff", Actor{UserID: 3, Role: user.RolePendingStaff}, false, false},
		{"student", Actor{UserID: 4, Role: user.RoleStudent}, false, false},
		{"未知角色", Actor{UserID: 5, Role: "ROOT"}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAdmin, tt.actor.IsAdmin())
			assert.Equal(t, tt.wantPrivileged, tt.actor.IsPrivileged())
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	err := RequireAdmin(Actor{})
	require.NotNil(t, err)
	assert.Equal(t, response.Unauthorized, err.Code)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	err = RequireAdmin(Actor{UserID: 9, Role: user.RoleStaff})
	require.NotNil(t, err)
	assert.Equal(t, response.Forbidden, err.Code)
	assert.ErrorIs(t, err, ErrForbidden)

	assert.Nil(t, RequireAdmin(Actor{UserID: 1, Role: user.RoleAdmin}))
}
