package score

import (
	"context"

	"cofactor-club/internal/model/referral"
	"cofactor-club/internal/model/user"
	"cofactor-club/internal/model/wiki"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository 分数相关的存储访问，所有方法都在传入的 db（可为事务）上执行
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LockUser 加行锁读取用户，用户不存在时返回 gorm.ErrRecordNotFound
func (r *Repository) LockUser(ctx context.Context, userID uint) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&u, userID).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CountReferrals 作为推荐人的推荐数
func (r *Repository) CountReferrals(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&referral.Referral{}).
		Where("referrer_id = ?", userID).
		Count(&n).Error
	return n, err
}

// CountApprovedRevisions 已通过的修订数
func (r *Repository) CountApprovedRevisions(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&wiki.WikiRevision{}).
		Where("author_id = ? AND status = ?", userID, wiki.StatusApproved).
		Count(&n).Error
	return n, err
}

// SetScore 覆盖写入分数
func (r *Repository) SetScore(ctx context.Context, userID uint, score int64) error {
	return r.db.WithContext(ctx).Model(&user.User{}).
		Where("id = ?", userID).
		UpdateColumn("power_score", score).Error
}

// AddScore 原子累加，返回受影响行数（0 表示用户不存在）
func (r *Repository) AddScore(ctx context.Context, userID uint, delta int64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&user.User{}).
		Where("id = ?", userID).
		UpdateColumn("power_score", gorm.Expr("power_score + ?", delta))
	return result.RowsAffected, result.Error
}

// ListUserIDsAfter 按 id 升序分批取用户 id
func (r *Repository) ListUserIDsAfter(ctx context.Context, afterID uint, limit int) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&user.User{}).
		Where("id > ?", afterID).
		Order("id asc").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}
