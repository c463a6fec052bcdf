// Package config 配置管理：config.yaml + .env + 环境变量
package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

var (
	Conf *AppConfig
	once sync.Once
)

// Load 加载配置文件，环境变量覆盖文件中的同名配置
// 环境变量按 SERVER_PORT -> server.port 的规则映射
func Load(configPath string) error {
	var err error
	once.Do(func() {
		// 首先加载 .env 文件到环境变量
		if envErr := godotenv.Load(); envErr != nil {
			log.WithError(envErr).Debug("未加载 .env 文件")
		}

		k := koanf.New(".")
		if err = load(k, configPath); err != nil {
			return
		}
		Conf, err = unmarshal(k)
	})

	return err
}

// MustLoad 加载配置，失败则退出
func MustLoad(configPath string) {
	if err := Load(configPath); err != nil {
		log.WithError(err).Fatal("配置加载失败")
	}
}

func load(k *koanf.Koanf, configPath string) error {
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return fmt.Errorf("加载配置文件失败: %w", err)
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}), nil); err != nil {
		log.WithError(err).Warn("加载环境变量失败")
	}
	return nil
}

func unmarshal(k *koanf.Koanf) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := k.Unmarshal("", conf); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// 配置文件中的超时以秒为单位
	conf.Server.ReadTimeout = conf.Server.ReadTimeout * time.Second
	conf.Server.WriteTimeout = conf.Server.WriteTimeout * time.Second
	return conf, nil
}
