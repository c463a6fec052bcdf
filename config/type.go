package config

import (
	"time"

	"cofactor-club/pkg/email"
	"cofactor-club/pkg/logger"
)

// AppConfig 应用配置结构
type AppConfig struct {
	Server   ServerConfig   `koanf:"server"`
	GRPC     GRPCConfig     `koanf:"grpc"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Log      logger.Config  `koanf:"log"`
	JWT      JWTConfig      `koanf:"jwt"`
	Smtp     email.Config   `koanf:"smtp"`
	Kafka    KafkaConfig    `koanf:"kafka"`
	Staff    StaffConfig    `koanf:"staff"`
	Jobs     JobsConfig     `koanf:"jobs"`
	Social   SocialConfig   `koanf:"social"`
	Cors     CorsConfig     `koanf:"cors"`
}

type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	Mode         string        `koanf:"mode"` // debug, release
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type GRPCConfig struct {
	Port int `koanf:"port"` // 0 表示不启动 gRPC
}

type DatabaseConfig struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	Database     string `koanf:"database"`
	SSLMode      bool   `koanf:"sslmode"`
	LogLevel     string `koanf:"log_level"` // gorm 日志级别
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"` // 秒
}

type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	PoolSize int    `koanf:"pool_size"`
}

type JWTConfig struct {
	Secret     string `koanf:"secret"`
	ExpireTime int    `koanf:"expire_time"` // 小时
}

// KafkaConfig 欢迎邮件事件的 Kafka 配置，broker 为空表示不启用
type KafkaConfig struct {
	Broker   string `koanf:"broker"`
	Topic    string `koanf:"topic"`
	Group    string `koanf:"group"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

func (c KafkaConfig) Enabled() bool {
	return c.Broker != ""
}

// StaffConfig 注册时匹配该口令即申请成为 staff
type StaffConfig struct {
	Secret string `koanf:"secret"`
}

// SocialConfig 模拟同步的随机种子，0 表示按启动时间取种子
type SocialConfig struct {
	Seed uint64 `koanf:"seed"`
}

// CorsConfig 允许跨域访问的前端地址
type CorsConfig struct {
	Origins []string `koanf:"origins"` // 环境变量 CORS_ORIGINS 只能给出单个地址
}

type JobsConfig struct {
	Reconcile string `koanf:"reconcile"` // cron 表达式，为空表示不启用分数校准
}

// AccessTokenTTL 访问令牌有效期
func (c JWTConfig) AccessTokenTTL() time.Duration {
	if c.ExpireTime <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(c.ExpireTime) * time.Hour
}
