// Package logger 基于 logrus 的全局日志初始化
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Config 日志配置
type Config struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, text
	Output string `koanf:"output"` // stdout, file
	Path   string `koanf:"path"`   // 日志文件路径
}

// Setup 按配置初始化 logrus 标准 logger
// 返回的 io.Closer 在输出到文件时需要在退出前关闭
func Setup(cfg Config) (io.Closer, error) {
	level, err := log.ParseLevel(strings.ToLower(defaultString(cfg.Level, "info")))
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if strings.ToLower(cfg.Output) != "file" {
		log.SetOutput(os.Stdout)
		return nopCloser{}, nil
	}

	path := defaultString(cfg.Path, "logs/app.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("创建日志目录失败: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("打开日志文件失败: %w", err)
	}
	log.SetOutput(f)
	return f, nil
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
