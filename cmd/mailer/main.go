// mailer 消费 Kafka 中的欢迎事件并通过 SMTP 发送欢迎邮件
package main

import (
	"context"
	"os/signal"
	"syscall"

	"cofactor-club/config"
	"cofactor-club/internal/notify"
	"cofactor-club/pkg/logger"

	log "github.com/sirupsen/logrus"
)

func main() {
	config.MustLoad("config.yaml")
	conf := config.Conf

	closer, err := logger.Setup(conf.Log)
	if err != nil {
		log.WithError(err).Fatal("日志初始化失败")
	}
	defer closer.Close()

	if !conf.Kafka.Enabled() {
		log.Fatal("kafka.broker 未配置")
	}
	if !conf.Smtp.Enabled() {
		log.Warn("SMTP 未配置，欢迎事件将被消费但不会发送邮件")
	}

	consumer := notify.NewConsumer(notify.KafkaConfig{
		Broker:   conf.Kafka.Broker,
		Topic:    conf.Kafka.Topic,
		Group:    conf.Kafka.Group,
		Username: conf.Kafka.Username,
		Password: conf.Kafka.Password,
	}, notify.NewSMTPNotifier(conf.Smtp))
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"topic": conf.Kafka.Topic,
		"group": conf.Kafka.Group,
	}).Info("mailer 启动")
	if err := consumer.Run(ctx); err != nil {
		log.WithError(err).Fatal("mailer 异常退出")
	}
	log.Info("mailer 已停止")
}
