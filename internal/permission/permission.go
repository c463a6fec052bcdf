// Package permission 调用者身份与权限判断
// 所有业务操作显式接收 Actor，由中间件在请求入口解析一次
package permission

import (
	"errors"

	"cofactor-club/internal/model/user"
	"cofactor-club/pkg/response"
)

var (
	ErrUnauthenticated = errors.New("login required")
	ErrForbidden       = errors.New("administrator privilege required")
)

// 角色等级常量，数值越大权限越高
const (
	RoleLevelAdmin   = 80
	RoleLevelStaff   = 50
	RoleLevelMember  = 10
	RoleLevelUnknown = 0
)

// RoleLevelMap 角色名称到等级的映射
var RoleLevelMap = map[string]int{
	user.RoleAdmin:        RoleLevelAdmin,
	user.RoleStaff:        RoleLevelStaff,
	user.RoleStudent:      RoleLevelMember,
	user.RolePendingStaff: RoleLevelMember,
}

// GetRoleLevel 获取角色的权限等级，未知角色为 RoleLevelUnknown
func GetRoleLevel(role string) int {
	if level, ok := RoleLevelMap[role]; ok {
		return level
	}
	return RoleLevelUnknown
}

// HasRequiredRole 实际角色是否满足所需角色，未知角色总是被拒绝
func HasRequiredRole(actualRole, requiredRole string) bool {
	actual := GetRoleLevel(actualRole)
	return actual > RoleLevelUnknown && actual >= GetRoleLevel(requiredRole)
}

// Actor 当前操作者
// 零值表示无法识别的调用者，任何权限判断都返回 false
type Actor struct {
	UserID uint
	Role   string
}

// Identified 是否识别出了调用者
func (a Actor) Identified() bool {
	return a.UserID != 0
}

// IsAdmin 是否管理员
func (a Actor) IsAdmin() bool {
	return a.Identified() && HasRequiredRole(a.Role, user.RoleAdmin)
}

// IsPrivileged staff 或 admin，编辑可直接发布
func (a Actor) IsPrivileged() bool {
	return a.Identified() && HasRequiredRole(a.Role, user.RoleStaff)
}

// RequireIdentified 要求已登录
func RequireIdentified(a Actor) *response.BusinessError {
	if !a.Identified() {
		return response.NewError(response.Unauthorized, ErrUnauthenticated)
	}
	return nil
}

// RequireAdmin 要求管理员，无法识别调用者时同样拒绝
func RequireAdmin(a Actor) *response.BusinessError {
	if err := RequireIdentified(a); err != nil {
		return err
	}
	if !a.IsAdmin() {
		return response.NewError(response.Forbidden, ErrForbidden)
	}
	return nil
}
