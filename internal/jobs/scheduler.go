// Package jobs 后台定时任务
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Reconciler 全量重算分数
type Reconciler interface {
	RecalculateAll(ctx context.Context) (int, error)
}

// Scheduler 定时校准 power score，修正累加与实际数据之间的偏差
type Scheduler struct {
	cron       *cron.Cron
	reconciler Reconciler
	schedule   string
}

// NewScheduler schedule 为空表示不启用
func NewScheduler(reconciler Reconciler, schedule string) *Scheduler {
	// 上一次还没跑完时跳过本次
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	return &Scheduler{
		cron:       c,
		reconciler: reconciler,
		schedule:   schedule,
	}
}

// Start 注册任务并启动，cron 表达式非法时返回错误
func (s *Scheduler) Start(ctx context.Context) error {
	if s.schedule == "" {
		log.WithField("component", "jobs").Info("score reconcile disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, func() { s.Reconcile(ctx) }); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	log.WithFields(log.Fields{
		"component": "jobs",
		"schedule":  s.schedule,
	}).Info("scheduler started")
	return nil
}

// Reconcile 执行一次全量重算
func (s *Scheduler) Reconcile(ctx context.Context) {
	start := time.Now()
	n, err := s.reconciler.RecalculateAll(ctx)

	entry := log.WithFields(log.Fields{
		"component": "jobs",
		"users":     n,
		"elapsed":   time.Since(start).String(),
	})
	if err != nil {
		entry.WithError(err).Error("[CRON] score reconcile finished with errors")
		return
	}
	entry.Info("[CRON] score reconcile finished")
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.WithField("component", "jobs").Info("scheduler stopped")
}
