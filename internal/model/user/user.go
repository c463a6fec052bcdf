// Package user 会员模型
package user

import (
	"time"

	"gorm.io/datatypes"
)

// 会员角色
const (
	RoleStudent      = "STUDENT"
	RolePendingStaff = "PENDING_STAFF"
	RoleStaff        = "STAFF"
	RoleAdmin        = "ADMIN"
)

// User 会员
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Role         string `gorm:"type:varchar(32);not null;default:'STUDENT';index" json:"role"`
	// 注册时生成，唯一
	ReferralCode string `gorm:"type:varchar(32);not null;uniqueIndex" json:"referral_code"`
	// 各平台自报的粉丝数
	SocialStats datatypes.JSONType[SocialStats] `gorm:"type:jsonb" json:"social_stats"`
	// 由分数引擎维护的缓存值
	PowerScore int64     `gorm:"not null;default:0;index" json:"power_score"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Stats 返回类型化的社媒数据，未设置时为空 map
func (u *User) Stats() SocialStats {
	stats := u.SocialStats.Data()
	if stats == nil {
		return SocialStats{}
	}
	return stats
}

// IsPrivileged staff 和 admin 的编辑直接发布
func IsPrivileged(role string) bool {
	return role == RoleStaff || role == RoleAdmin
}
