package database

import (
	"fmt"
	"time"

	"cofactor-club/config"
	"cofactor-club/internal/model"
	dbPkg "cofactor-club/pkg/database"

	"gorm.io/gorm"
)

// migrationLockID 迁移用的 advisory lock 编号
const migrationLockID = 7_202_611

var (
	PostgresDB *gorm.DB
	Redis      *dbPkg.RedisClient
)

// InitDatabase 连接 PostgreSQL 与 Redis 并迁移表结构
func InitDatabase() error {
	if err := initPostgres(); err != nil {
		return err
	}
	return initRedis()
}

func initPostgres() error {
	databaseConf := config.Conf.Database

	var err error
	PostgresDB, err = dbPkg.InitPostgres(&dbPkg.PostgresConfig{
		ServiceName:     "cofactor-club",
		Username:        databaseConf.Username,
		Password:        databaseConf.Password,
		Host:            databaseConf.Host,
		Port:            databaseConf.Port,
		Database:        databaseConf.Database,
		SSLMode:         databaseConf.SSLMode,
		LogLevel:        databaseConf.LogLevel,
		MaxIdleConns:    databaseConf.MaxIdleConns,
		MaxOpenConns:    databaseConf.MaxOpenConns,
		ConnMaxLifetime: time.Duration(databaseConf.MaxLifetime) * time.Second,
	})
	if err != nil {
		return err
	}

	// 初始化数据库表
	if err := dbPkg.MigrateWithLock(PostgresDB, migrationLockID, model.InitTable); err != nil {
		return fmt.Errorf("迁移数据库失败: %w", err)
	}
	return nil
}

func initRedis() error {
	redisConf := config.Conf.Redis

	var err error
	Redis, err = dbPkg.InitRedis(&dbPkg.RedisConfig{
		ServiceName: "cofactor-club",
		Host:        redisConf.Host,
		Port:        redisConf.Port,
		Password:    redisConf.Password,
		DB:          redisConf.DB,
		PoolSize:    redisConf.PoolSize,
	})
	return err
}

// Close 关闭连接
func Close() {
	if PostgresDB != nil {
		if sqlDB, err := PostgresDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if Redis != nil {
		_ = Redis.Close()
	}
}
