// Package leaderboard 排行榜与会员名单
package leaderboard

import (
	"context"
	"errors"
	"time"

	"cofactor-club/internal/model/referral"
	"cofactor-club/internal/model/user"
	"cofactor-club/internal/model/wiki"
	"cofactor-club/internal/permission"
	"cofactor-club/pkg/response"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Entry 排行榜条目
type Entry struct {
	Rank       int    `json:"rank"`
	UserID     uint   `json:"user_id"`
	Name       string `json:"name"`
	PowerScore int64  `json:"power_score"`
}

// Member 管理后台会员名单条目
type Member struct {
	ID            uint      `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	ReferralCode  string    `json:"referral_code"`
	PowerScore    int64     `json:"power_score"`
	ReferralCount int64     `json:"referral_count"`
	ApprovedEdits int64     `json:"approved_edits"`
	CreatedAt     time.Time `json:"created_at"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ClampLimit 非法值回落到默认值，超过上限截断
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Top 分数最高的学生会员，同分按注册先后
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, *response.BusinessError) {
	var users []user.User
	err := s.db.WithContext(ctx).
		Select("id", "name", "power_score").
		Where("role = ?", user.RoleStudent).
		Order("power_score desc, id asc").
		Limit(ClampLimit(limit)).
		Find(&users).Error
	if err != nil {
		return nil, internalError(err, "failed to load leaderboard")
	}

	entries := make([]Entry, 0, len(users))
	for i, u := range users {
		entries = append(entries, Entry{
			Rank:       i + 1,
			UserID:     u.ID,
			Name:       u.Name,
			PowerScore: u.PowerScore,
		})
	}
	return entries, nil
}

// Score 单个会员的当前分数，用户不存在返回 NotFound
func (s *Service) Score(ctx context.Context, userID uint) (*Entry, *response.BusinessError) {
	var u user.User
	err := s.db.WithContext(ctx).Select("id", "name", "role", "power_score").First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewBusinessError(
			response.WithErrorCode(response.NotFound),
			response.WithErrorMessage("user not found"),
			response.WithError(err),
		)
	}
	if err != nil {
		return nil, internalError(err, "failed to load score")
	}

	entry := &Entry{UserID: u.ID, Name: u.Name, PowerScore: u.PowerScore}
	if u.Role == user.RoleStudent {
		var ahead int64
		if err := s.db.WithContext(ctx).Model(&user.User{}).
			Where("role = ? AND (power_score > ? OR (power_score = ? AND id < ?))",
				user.RoleStudent, u.PowerScore, u.PowerScore, u.ID).
			Count(&ahead).Error; err != nil {
			return nil, internalError(err, "failed to load rank")
		}
		entry.Rank = int(ahead) + 1
	}
	return entry, nil
}

type countRow struct {
	UserID uint
	N      int64
}

// Members 全部会员及推荐数、通过的编辑数（管理员）
func (s *Service) Members(ctx context.Context, actor permission.Actor) ([]Member, *response.BusinessError) {
	if err := permission.RequireAdmin(actor); err != nil {
		return nil, err
	}

	var users []user.User
	if err := s.db.WithContext(ctx).Order("power_score desc, id asc").Find(&users).Error; err != nil {
		return nil, internalError(err, "failed to list members")
	}

	var referrals []countRow
	if err := s.db.WithContext(ctx).Model(&referral.Referral{}).
		Select("referrer_id AS user_id, COUNT(*) AS n").
		Group("referrer_id").
		Scan(&referrals).Error; err != nil {
		return nil, internalError(err, "failed to count referrals")
	}

	var edits []countRow
	if err := s.db.WithContext(ctx).Model(&wiki.WikiRevision{}).
		Select("author_id AS user_id, COUNT(*) AS n").
		Where("status = ?", wiki.StatusApproved).
		Group("author_id").
		Scan(&edits).Error; err != nil {
		return nil, internalError(err, "failed to count edits")
	}

	referralsBy := toMap(referrals)
	editsBy := toMap(edits)

	members := make([]Member, 0, len(users))
	for _, u := range users {
		members = append(members, Member{
			ID:            u.ID,
			Email:         u.Email,
			Name:          u.Name,
			Role:          u.Role,
			ReferralCode:  u.ReferralCode,
			PowerScore:    u.PowerScore,
			ReferralCount: referralsBy[u.ID],
			ApprovedEdits: editsBy[u.ID],
			CreatedAt:     u.CreatedAt,
		})
	}
	return members, nil
}

func toMap(rows []countRow) map[uint]int64 {
	m := make(map[uint]int64, len(rows))
	for _, r := range rows {
		m[r.UserID] = r.N
	}
	return m
}

func internalError(err error, msg string) *response.BusinessError {
	log.WithError(err).WithField("component", "leaderboard").Error(msg)
	return response.NewBusinessError(
		response.WithErrorCode(response.Fail),
		response.WithErrorMessage(msg),
		response.WithError(err),
	)
}
