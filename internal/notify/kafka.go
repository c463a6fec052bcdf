package notify

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	log "github.com/sirupsen/logrus"
)

// KafkaConfig 连接参数，用户名为空时不启用 SASL/TLS
type KafkaConfig struct {
	Broker   string
	Topic    string
	Group    string
	Username string
	Password string
}

// MessageWriter kafka.Writer 的最小接口
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier 把欢迎事件写入 Kafka，由 mailer 进程消费后发信
type KafkaNotifier struct {
	writer MessageWriter
}

func NewKafkaNotifier(cfg KafkaConfig) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Broker),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
	}
	if cfg.Username != "" {
		w.Transport = &kafka.Transport{
			SASL: plain.Mechanism{Username: cfg.Username, Password: cfg.Password},
			TLS:  &tls.Config{},
		}
	}
	return &KafkaNotifier{writer: w}
}

func (n *KafkaNotifier) SendWelcome(ctx context.Context, msg Welcome) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode welcome event: %w", err)
	}
	if err := n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.Email),
		Value: value,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("publish welcome event: %w", err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// MessageReader kafka.Reader 的最小接口
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer 消费欢迎事件并交给下游 Notifier（通常是 SMTPNotifier）
type Consumer struct {
	reader MessageReader
	next   Notifier
}

func NewConsumer(cfg KafkaConfig, next Notifier) *Consumer {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if cfg.Username != "" {
		dialer.TLS = &tls.Config{}
		dialer.SASLMechanism = plain.Mechanism{Username: cfg.Username, Password: cfg.Password}
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Broker},
		GroupID:  cfg.Group,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		Dialer:   dialer,
	})
	return &Consumer{reader: reader, next: next}
}

// Run 阻塞消费直到 ctx 取消
// 欢迎邮件不重试：格式错误或发送失败的消息记录日志后照常提交
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			log.WithError(err).WithField("component", "mailer").Error("fetch message failed")
			return err
		}

		if err := c.handle(ctx, msg); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"component": "mailer",
				"offset":    msg.Offset,
				"partition": msg.Partition,
			}).Warn("welcome email failed")
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			log.WithError(err).WithField("component", "mailer").Error("commit message failed")
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	var welcome Welcome
	if err := json.Unmarshal(msg.Value, &welcome); err != nil || welcome.Email == "" {
		log.WithFields(log.Fields{
			"component": "mailer",
			"offset":    msg.Offset,
		}).Warn("malformed welcome event skipped")
		return nil
	}
	return c.next.SendWelcome(ctx, welcome)
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
