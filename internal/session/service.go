package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"cofactor-club/internal/model/referral"
	"cofactor-club/internal/model/user"
	"cofactor-club/internal/permission"
	"cofactor-club/pkg/authsdk"
	"cofactor-club/pkg/response"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service 登录会话：JWT 访问令牌 + Redis 刷新令牌
type Service struct {
	db        *gorm.DB
	store     TokenStore
	secret    string
	accessTTL time.Duration
}

func NewService(db *gorm.DB, store TokenStore, secret string, accessTTL time.Duration) *Service {
	return &Service{
		db:        db,
		store:     store,
		secret:    secret,
		accessTTL: accessTTL,
	}
}

// Login 邮箱密码登录
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, *response.BusinessError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var u user.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewError(response.Unauthorized, ErrInvalidCredentials)
	}
	if err != nil {
		return nil, s.internalError(err, "login failed")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		log.WithFields(log.Fields{
			"component": "session",
			"user_id":   u.ID,
		}).Info("login rejected: wrong password")
		return nil, response.NewError(response.Unauthorized, ErrInvalidCredentials)
	}

	return s.startSession(ctx, &u)
}

// Issue 为刚注册的会员直接建立会话
func (s *Service) Issue(ctx context.Context, userID uint) (*LoginResponse, *response.BusinessError) {
	u, bizErr := s.loadUser(ctx, userID)
	if bizErr != nil {
		return nil, bizErr
	}
	return s.startSession(ctx, u)
}

// Refresh 轮换刷新令牌；角色从数据库重新读取，staff 审核通过后刷新即可生效
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, *response.BusinessError) {
	if refreshToken == "" {
		return nil, response.NewError(response.Unauthorized, ErrInvalidRefreshToken)
	}

	data, err := s.store.Get(ctx, refreshToken)
	if errors.Is(err, ErrTokenNotFound) {
		return nil, response.NewError(response.Unauthorized, ErrInvalidRefreshToken)
	}
	if err != nil {
		return nil, s.internalError(err, "refresh failed")
	}

	if err := s.store.Delete(ctx, refreshToken); err != nil {
		return nil, s.internalError(err, "refresh failed")
	}

	u, bizErr := s.loadUser(ctx, data.UserID)
	if bizErr != nil {
		if errors.Is(bizErr, ErrUserNotFound) {
			return nil, response.NewError(response.Unauthorized, ErrInvalidRefreshToken)
		}
		return nil, bizErr
	}
	return s.startSession(ctx, u)
}

// Logout 撤销刷新令牌，令牌不存在也视为成功
func (s *Service) Logout(ctx context.Context, refreshToken string) *response.BusinessError {
	if refreshToken == "" {
		return nil
	}
	if err := s.store.Delete(ctx, refreshToken); err != nil {
		return s.internalError(err, "logout failed")
	}
	return nil
}

// Me 当前会员资料
func (s *Service) Me(ctx context.Context, actor permission.Actor) (*Profile, *response.BusinessError) {
	if err := permission.RequireIdentified(actor); err != nil {
		return nil, err
	}

	u, bizErr := s.loadUser(ctx, actor.UserID)
	if bizErr != nil {
		return nil, bizErr
	}

	var referrals int64
	if err := s.db.WithContext(ctx).Model(&referral.Referral{}).
		Where("referrer_id = ?", u.ID).
		Count(&referrals).Error; err != nil {
		return nil, s.internalError(err, "failed to load profile")
	}

	profile := toProfile(u)
	profile.ReferralCount = referrals
	return profile, nil
}

func (s *Service) startSession(ctx context.Context, u *user.User) (*LoginResponse, *response.BusinessError) {
	expiresAt := time.Now().Add(s.accessTTL)
	access, err := authsdk.GenerateToken(authsdk.UserContext{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
	}, s.secret, s.accessTTL)
	if err != nil {
		return nil, s.internalError(err, "failed to issue access token")
	}

	refresh := uuid.NewString()
	if err := s.store.Create(ctx, refresh, TokenData{UserID: u.ID, Email: u.Email}); err != nil {
		return nil, s.internalError(err, "failed to issue refresh token")
	}

	log.WithFields(log.Fields{
		"component": "session",
		"user_id":   u.ID,
		"role":      u.Role,
	}).Info("session started")

	return &LoginResponse{
		TokenPair: TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresAt:    expiresAt,
		},
		User: toProfile(u),
	}, nil
}

func (s *Service) loadUser(ctx context.Context, id uint) (*user.User, *response.BusinessError) {
	var u user.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewError(response.NotFound, ErrUserNotFound)
	}
	if err != nil {
		return nil, s.internalError(err, "failed to load user")
	}
	return &u, nil
}

func toProfile(u *user.User) *Profile {
	return &Profile{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		ReferralCode: u.ReferralCode,
		PowerScore:   u.PowerScore,
		SocialStats:  u.Stats(),
		CreatedAt:    u.CreatedAt,
	}
}

func (s *Service) internalError(err error, msg string) *response.BusinessError {
	log.WithError(err).WithField("component", "session").Error(msg)
	return response.NewBusinessError(
		response.WithErrorCode(response.Fail),
		response.WithErrorMessage(msg),
		response.WithError(err),
	)
}
