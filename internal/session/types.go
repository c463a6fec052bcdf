package session

import (
	"time"

	"cofactor-club/internal/model/user"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ada@example.com"`
	Password string `json:"password" binding:"required" example:"correct-horse"`
}

// RefreshRequest cookie 中没有 refresh_token 时从 body 读取
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenPair 令牌对
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Profile 当前会员信息
type Profile struct {
	ID            uint             `json:"id"`
	Email         string           `json:"email"`
	Name          string           `json:"name"`
	Role          string           `json:"role"`
	ReferralCode  string           `json:"referral_code"`
	PowerScore    int64            `json:"power_score"`
	SocialStats   user.SocialStats `json:"social_stats"`
	ReferralCount int64            `json:"referral_count"`
	CreatedAt     time.Time        `json:"created_at"`
}

// LoginResponse 登录/刷新结果
type LoginResponse struct {
	TokenPair
	User *Profile `json:"user"`
}
