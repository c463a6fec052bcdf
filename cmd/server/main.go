package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cofactor-club/config"
	"cofactor-club/internal/database"
	"cofactor-club/internal/dto"
	grpcserver "cofactor-club/internal/grpc"
	"cofactor-club/internal/jobs"
	"cofactor-club/internal/leaderboard"
	"cofactor-club/internal/notify"
	"cofactor-club/internal/route"
	"cofactor-club/internal/score"
	"cofactor-club/internal/session"
	"cofactor-club/internal/signup"
	"cofactor-club/internal/social"
	"cofactor-club/internal/staff"
	"cofactor-club/internal/wiki"
	"cofactor-club/pkg/logger"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	// 1. 加载配置
	config.MustLoad("config.yaml")
	conf := config.Conf

	closer, err := logger.Setup(conf.Log)
	if err != nil {
		log.WithError(err).Fatal("日志初始化失败")
	}
	defer closer.Close()

	if conf.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := dto.RegisterValidations(); err != nil {
		log.WithError(err).Fatal("注册校验规则失败")
	}

	// 2. 初始化数据库
	if err := database.InitDatabase(); err != nil {
		log.WithError(err).Fatal("数据库初始化失败")
	}
	defer database.Close()
	db := database.PostgresDB

	// 3. 组装服务
	engine := score.NewEngine(db)
	notifier := notify.New(conf.Smtp, notify.KafkaConfig{
		Broker:   conf.Kafka.Broker,
		Topic:    conf.Kafka.Topic,
		Username: conf.Kafka.Username,
		Password: conf.Kafka.Password,
	})
	if c, ok := notifier.(io.Closer); ok {
		defer c.Close()
	}

	seed := conf.Social.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	sessions := session.NewService(db, session.NewRedisTokenStore(database.Redis.Client), conf.JWT.Secret, conf.JWT.AccessTokenTTL())
	board := leaderboard.NewService(db)
	services := route.Services{
		Session:     sessions,
		Signup:      signup.NewService(db, engine, notifier, conf.Staff.Secret),
		Wiki:        wiki.NewService(db, engine),
		Staff:       staff.NewService(db),
		Social:      social.NewService(db, engine, social.NewRandomSource(seed)),
		Leaderboard: board,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. 后台任务
	scheduler := jobs.NewScheduler(engine, conf.Jobs.Reconcile)
	if err := scheduler.Start(ctx); err != nil {
		log.WithError(err).Fatal("定时任务启动失败")
	}
	defer scheduler.Stop()

	if conf.GRPC.Port != 0 {
		grpcSrv, err := grpcserver.NewServer(conf.GRPC.Port, grpcserver.NewScoreServiceImpl(board), conf.JWT.Secret)
		if err != nil {
			log.WithError(err).Fatal("gRPC 监听失败")
		}
		go func() {
			log.WithField("addr", grpcSrv.GetAddr()).Info("gRPC 服务启动")
			if err := grpcSrv.Start(); err != nil {
				log.WithError(err).Error("gRPC 服务异常退出")
			}
		}()
		defer grpcSrv.Stop()
	}

	// 5. 启动 HTTP 服务
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", conf.Server.Host, conf.Server.Port),
		Handler:      route.SetupRouter(services, conf.Cors.Origins),
		ReadTimeout:  conf.Server.ReadTimeout,
		WriteTimeout: conf.Server.WriteTimeout,
	}
	go func() {
		log.WithField("addr", srv.Addr).Info("HTTP 服务启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("HTTP 服务异常退出")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("正在关闭服务")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP 服务关闭失败")
		os.Exit(1)
	}
}
