// Package referral 推荐关系模型
package referral

import (
	"time"

	"cofactor-club/internal/model/user"
)

// Referral 推荐边：ReferrerID 推荐了 ReferredUserID，注册时创建，之后不再修改
type Referral struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ReferrerID uint `gorm:"not null;index" json:"referrer_id"`
	// 每个用户最多被推荐一次
	ReferredUserID uint      `gorm:"not null;uniqueIndex" json:"referred_user_id"`
	CreatedAt      time.Time `json:"created_at"`

	Referrer     *user.User `gorm:"foreignKey:ReferrerID;constraint:OnDelete:RESTRICT" json:"-"`
	ReferredUser *user.User `gorm:"foreignKey:ReferredUserID;constraint:OnDelete:RESTRICT" json:"-"`
}
