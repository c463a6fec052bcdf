package model

import (
	"cofactor-club/internal/model/referral"
	"cofactor-club/internal/model/user"
	"cofactor-club/internal/model/wiki"

	"gorm.io/gorm"
)

// InitTable 自动迁移数据库表结构，顺序即外键依赖顺序
func InitTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&referral.Referral{},
		&wiki.UniPage{},
		&wiki.WikiRevision{},
	)
}
