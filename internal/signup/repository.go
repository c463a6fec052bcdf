package signup

import (
	"context"

	"cofactor-club/internal/model/referral"
	"cofactor-club/internal/model/user"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&user.User{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&n).Error
	return n > 0, err
}

// FindByReferralCode 用户不存在时返回 gorm.ErrRecordNotFound
func (r *Repository) FindByReferralCode(ctx context.Context, code string) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).Where("referral_code = ?", code).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&user.User{}).
		Where("referral_code = ?", code).
		Count(&n).Error
	return n > 0, err
}

func (r *Repository) CreateUser(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *Repository) CreateReferral(ctx context.Context, edge *referral.Referral) error {
	return r.db.WithContext(ctx).Create(edge).Error
}
