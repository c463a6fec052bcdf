// Package social 会员自报的社媒粉丝数
package social

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cofactor-club/internal/model/user"
	"cofactor-club/internal/permission"
	"cofactor-club/internal/score"
	"cofactor-club/pkg/response"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db     *gorm.DB
	score  *score.Engine
	source StatsSource
}

func NewService(db *gorm.DB, engine *score.Engine, source StatsSource) *Service {
	return &Service{db: db, score: engine, source: source}
}

// Get 当前会员的社媒数据
func (s *Service) Get(ctx context.Context, actor permission.Actor) (*StatsView, *response.BusinessError) {
	if err := permission.RequireIdentified(actor); err != nil {
		return nil, err
	}

	var u user.User
	err := s.db.WithContext(ctx).First(&u, actor.UserID).Error
	if err != nil {
		return nil, s.toBusinessError(err, "failed to load social stats")
	}
	return toView(u.Stats(), u.PowerScore), nil
}

// UpdatePlatform 合并单个平台的数据，其他平台不变，随后全量重算分数
func (s *Service) UpdatePlatform(ctx context.Context, actor permission.Actor, platform string, handle string, count int64) (*StatsView, *response.BusinessError) {
	if err := permission.RequireIdentified(actor); err != nil {
		return nil, err
	}

	p, ok := user.ParsePlatform(platform)
	if !ok {
		return nil, response.NewError(response.InvalidParameter, ErrUnknownPlatform)
	}
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, response.NewError(response.InvalidParameter, ErrHandleRequired)
	}
	if count < 0 || count > user.MaxFollowerCount {
		return nil, response.NewError(response.InvalidParameter, ErrCountOutOfRange)
	}

	view, err := s.apply(ctx, actor.UserID, func(stats user.SocialStats) user.SocialStats {
		return stats.With(p, user.PlatformStat{Handle: handle, Count: count})
	})
	if err != nil {
		return nil, s.toBusinessError(err, "failed to update social stats")
	}

	log.WithFields(log.Fields{
		"component": "social",
		"user_id":   actor.UserID,
		"platform":  p,
		"count":     count,
		"score":     view.PowerScore,
	}).Info("social stats updated")
	return view, nil
}

// Sync 从 StatsSource 拉取所有平台的粉丝数并覆盖，账号名保留
func (s *Service) Sync(ctx context.Context, actor permission.Actor) (*StatsView, *response.BusinessError) {
	if err := permission.RequireIdentified(actor); err != nil {
		return nil, err
	}

	var current user.User
	if err := s.db.WithContext(ctx).First(&current, actor.UserID).Error; err != nil {
		return nil, s.toBusinessError(err, "failed to sync social stats")
	}
	existing := current.Stats()

	// 外部调用放在事务之外
	fresh := make(map[user.Platform]int64, len(user.Platforms))
	for _, p := range user.Platforms {
		n, err := s.source.Fetch(ctx, p, existing[p].Handle)
		if err != nil {
			return nil, s.toBusinessError(fmt.Errorf("fetch %s: %w", p, err), "failed to sync social stats")
		}
		if n < 0 || n > user.MaxFollowerCount {
			return nil, s.toBusinessError(fmt.Errorf("fetch %s: %w", p, ErrCountOutOfRange), "failed to sync social stats")
		}
		fresh[p] = n
	}

	view, err := s.apply(ctx, actor.UserID, func(stats user.SocialStats) user.SocialStats {
		for p, n := range fresh {
			stats = stats.With(p, user.PlatformStat{Handle: stats[p].Handle, Count: n})
		}
		return stats
	})
	if err != nil {
		return nil, s.toBusinessError(err, "failed to sync social stats")
	}

	log.WithFields(log.Fields{
		"component": "social",
		"user_id":   actor.UserID,
		"reach":     view.Reach,
		"score":     view.PowerScore,
	}).Info("social stats synced")
	return view, nil
}

// apply 锁住用户行，修改社媒数据并在同一事务内重算分数
func (s *Service) apply(ctx context.Context, userID uint, mutate func(user.SocialStats) user.SocialStats) (*StatsView, error) {
	var view *StatsView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u user.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, userID).Error; err != nil {
			return err
		}

		stats := mutate(u.Stats())
		if err := tx.Model(&user.User{}).
			Where("id = ?", userID).
			Update("social_stats", datatypes.NewJSONType(stats)).Error; err != nil {
			return err
		}

		next, err := s.score.RecalculateTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		view = toView(stats, next)
		return nil
	})
	return view, err
}

func toView(stats user.SocialStats, powerScore int64) *StatsView {
	return &StatsView{Stats: stats, Reach: stats.Reach(), PowerScore: powerScore}
}

func (s *Service) toBusinessError(err error, msg string) *response.BusinessError {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewError(response.NotFound, ErrUserNotFound)
	}
	log.WithError(err).WithField("component", "social").Error(msg)
	return response.NewBusinessError(
		response.WithErrorCode(response.Fail),
		response.WithErrorMessage(msg),
		response.WithError(err),
	)
}
