// Package wiki 大学百科页面与修订模型
package wiki

import (
	"time"

	"cofactor-club/internal/model/user"
)

// 修订状态，PENDING 只能流转一次到 APPROVED 或 REJECTED
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// UniPage 大学百科页面
type UniPage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Content   string    `gorm:"type:text;not null;default:''" json:"content"`
	Published bool      `gorm:"not null;default:false" json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WikiRevision 对页面内容的一次修改提议
type WikiRevision struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UniPageID uint      `gorm:"not null;index" json:"uni_page_id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Status    string    `gorm:"type:varchar(16);not null;default:'PENDING';index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Page   *UniPage   `gorm:"foreignKey:UniPageID;constraint:OnDelete:RESTRICT" json:"page,omitempty"`
	Author *user.User `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT" json:"author,omitempty"`
}
