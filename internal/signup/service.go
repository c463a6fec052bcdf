package signup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cofactor-club/internal/model/referral"
	"cofactor-club/internal/model/user"
	"cofactor-club/internal/notify"
	"cofactor-club/internal/score"
	"cofactor-club/pkg/response"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// maxCodeAttempts 推荐码撞车时的最大重试次数
const maxCodeAttempts = 5

var validate = validator.New()

type Service struct {
	db          *gorm.DB
	repo        *Repository
	score       *score.Engine
	notifier    notify.Notifier
	staffSecret string
}

// NewService staffSecret 为空时不接受 staff 申请
func NewService(db *gorm.DB, engine *score.Engine, notifier notify.Notifier, staffSecret string) *Service {
	return &Service{
		db:          db,
		repo:        NewRepository(db),
		score:       engine,
		notifier:    notifier,
		staffSecret: staffSecret,
	}
}

// Signup 注册新会员
// 用户、推荐关系和推荐人加分在同一事务中写入；欢迎通知在提交后异步发送
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, *response.BusinessError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	code := strings.TrimSpace(req.Code)

	// 1. 参数校验
	if email == "" || req.Password == "" || name == "" || code == "" {
		return nil, response.NewError(response.InvalidParameter, ErrFieldsRequired)
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, response.NewError(response.InvalidParameter, ErrInvalidEmail)
	}

	// 2. 邮箱是否已注册
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, s.internalError(err)
	}
	if exists {
		return nil, response.NewError(response.InvalidParameter, ErrEmailExists)
	}

	// 3. 解析 code：staff 口令或推荐码
	role := user.RoleStudent
	var referrer *user.User
	if s.staffSecret != "" && code == s.staffSecret {
		role = user.RolePendingStaff
	} else {
		referrer, err = s.repo.FindByReferralCode(ctx, NormalizeCode(code))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewError(response.InvalidParameter, ErrInvalidReferralCode)
		}
		if err != nil {
			return nil, s.internalError(err)
		}
	}

	// 4. 密码加密
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, response.NewError(response.InvalidParameter, ErrPasswordTooLong)
	}
	if err != nil {
		return nil, s.internalError(err)
	}

	// 5. 创建用户
	newUser := &user.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
		Role:         role,
		SocialStats:  datatypes.NewJSONType(user.SocialStats{}),
	}
	if err := s.create(ctx, newUser, referrer); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, response.NewError(response.InvalidParameter, ErrEmailExists)
		}
		return nil, s.internalError(err)
	}

	fields := log.Fields{
		"component": "signup",
		"user_id":   newUser.ID,
		"role":      newUser.Role,
	}
	if referrer != nil {
		fields["referrer_id"] = referrer.ID
	}
	log.WithFields(fields).Info("member signed up")

	// 6. 欢迎通知，不影响注册结果
	notify.Dispatch(s.notifier, notify.Welcome{Email: newUser.Email, Name: newUser.Name})

	resp := &SignupResponse{
		ID:           newUser.ID,
		Email:        newUser.Email,
		Name:         newUser.Name,
		Role:         newUser.Role,
		ReferralCode: newUser.ReferralCode,
	}
	if referrer != nil {
		resp.ReferredBy = &referrer.ID
	}
	return resp, nil
}

// create 写入用户、推荐关系并给推荐人加分
// 唯一约束冲突时整体重试：推荐码冲突重新生成，邮箱冲突返回 ErrEmailExists
func (s *Service) create(ctx context.Context, newUser *user.User, referrer *user.User) error {
	var lastErr error
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		newUser.ID = 0
		lastErr = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)

			code, err := s.allocateCode(ctx, repo, newUser.Name)
			if err != nil {
				return err
			}
			newUser.ReferralCode = code

			if err := repo.CreateUser(ctx, newUser); err != nil {
				return err
			}
			if referrer == nil {
				return nil
			}

			if err := repo.CreateReferral(ctx, &referral.Referral{
				ReferrerID:     referrer.ID,
				ReferredUserID: newUser.ID,
			}); err != nil {
				return err
			}
			return s.score.Increment(ctx, tx, referrer.ID, score.ReferralPoints)
		})
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, gorm.ErrDuplicatedKey) {
			return lastErr
		}

		// 并发注册了同一邮箱
		exists, err := s.repo.EmailExists(ctx, newUser.Email)
		if err != nil {
			return err
		}
		if exists {
			return ErrEmailExists
		}
		log.WithFields(log.Fields{
			"component": "signup",
			"attempt":   attempt,
		}).Warn("referral code collision, retrying")
	}
	return fmt.Errorf("%w: %v", ErrCodeExhausted, lastErr)
}

// allocateCode 生成一个当前未被占用的推荐码，最终唯一性由唯一索引保证
func (s *Service) allocateCode(ctx context.Context, repo *Repository, name string) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := NewReferralCode(name)
		taken, err := repo.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}

func (s *Service) internalError(err error) *response.BusinessError {
	log.WithError(err).WithField("component", "signup").Error("signup failed")
	return response.NewBusinessError(
		response.WithErrorCode(response.Fail),
		response.WithErrorMessage("signup failed"),
		response.WithError(err),
	)
}
