// Package notify 会员通知（欢迎邮件）
// 发送是尽力而为的：失败只记录日志，不影响触发它的请求
package notify

import (
	"context"
	"time"

	"cofactor-club/pkg/email"

	log "github.com/sirupsen/logrus"
)

// dispatchTimeout 单次异步发送的超时
const dispatchTimeout = 30 * time.Second

// Welcome 欢迎通知内容
type Welcome struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Notifier 通知投递
type Notifier interface {
	SendWelcome(ctx context.Context, msg Welcome) error
}

// Noop 不做任何事，未配置 SMTP 和 Kafka 时使用
type Noop struct{}

func (Noop) SendWelcome(ctx context.Context, msg Welcome) error {
	log.WithFields(log.Fields{
		"component": "notify",
		"email":     msg.Email,
	}).Debug("no notifier configured, welcome skipped")
	return nil
}

// Dispatch 在独立 goroutine 中发送，不阻塞调用方
// 返回的 channel 在发送结束后关闭，调用方一般直接忽略
func Dispatch(n Notifier, msg Welcome) <-chan struct{} {
	done := make(chan struct{})
	if n == nil {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(log.Fields{
					"component": "notify",
					"email":     msg.Email,
					"panic":     r,
				}).Error("welcome notification panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		if err := n.SendWelcome(ctx, msg); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"component": "notify",
				"email":     msg.Email,
			}).Warn("welcome notification failed")
			return
		}
		log.WithFields(log.Fields{
			"component": "notify",
			"email":     msg.Email,
		}).Info("welcome notification sent")
	}()
	return done
}

// New 按配置选择投递方式：Kafka 优先，其次 SMTP，都没有则 Noop
func New(smtp email.Config, kafka KafkaConfig) Notifier {
	switch {
	case kafka.Broker != "":
		return NewKafkaNotifier(kafka)
	case smtp.Enabled():
		return NewSMTPNotifier(smtp)
	default:
		return Noop{}
	}
}
