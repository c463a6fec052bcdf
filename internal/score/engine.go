package score

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const recalcBatchSize = 200

// Engine 分数引擎
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Recalculate 在独立事务中重新计算并覆盖用户分数
// 用户不存在时返回 (0, nil)
func (e *Engine) Recalculate(ctx context.Context, userID uint) (int64, error) {
	var result int64
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = e.RecalculateTx(ctx, tx, userID)
		return err
	})
	return result, err
}

// RecalculateTx 在调用方事务内重新计算
// 先锁住用户行，与并发的 Increment 串行，避免覆盖掉别人刚加上的分数
func (e *Engine) RecalculateTx(ctx context.Context, tx *gorm.DB, userID uint) (int64, error) {
	repo := NewRepository(tx)

	u, err := repo.LockUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load user %d: %w", userID, err)
	}

	referrals, err := repo.CountReferrals(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count referrals: %w", err)
	}
	approved, err := repo.CountApprovedRevisions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count approved revisions: %w", err)
	}

	next := Compute(referrals, approved, u.Stats().Reach())
	if next == u.PowerScore {
		return next, nil
	}
	if err := repo.SetScore(ctx, userID, next); err != nil {
		return 0, fmt.Errorf("save score: %w", err)
	}
	return next, nil
}

// Increment 在存储层原子累加 delta；tx 为 nil 时直接在引擎连接上执行
// 用户不存在时为空操作
func (e *Engine) Increment(ctx context.Context, tx *gorm.DB, userID uint, delta int64) error {
	if tx == nil {
		tx = e.db
	}
	affected, err := NewRepository(tx).AddScore(ctx, userID, delta)
	if err != nil {
		return fmt.Errorf("increment score of user %d: %w", userID, err)
	}
	if affected == 0 {
		log.WithFields(log.Fields{
			"component": "score",
			"user_id":   userID,
			"delta":     delta,
		}).Debug("increment skipped, user not found")
	}
	return nil
}

// RecalculateAll 分批重算所有用户，单个用户失败不影响其他用户
// 返回成功重算的用户数和合并后的错误
func (e *Engine) RecalculateAll(ctx context.Context) (int, error) {
	repo := NewRepository(e.db)
	var (
		lastID uint
		done   int
		errs   []error
	)

	for {
		ids, err := repo.ListUserIDsAfter(ctx, lastID, recalcBatchSize)
		if err != nil {
			return done, errors.Join(append(errs, err)...)
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return done, errors.Join(append(errs, err)...)
			}
			if _, err := e.Recalculate(ctx, id); err != nil {
				errs = append(errs, err)
				continue
			}
			done++
		}
		lastID = ids[len(ids)-1]
	}

	return done, errors.Join(errs...)
}
