// Package config 加载服务配置：config/.env、可选的 YAML 文件与环境变量。
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envFile   = "config/.env"
	envPrefix = "MEMBER"
)

// NewConfig 读取配置，file 为空时只使用默认值与环境变量。
// 环境变量形如 MEMBER_DATABASE_DSN，已存在的环境变量不会被 .env 覆盖。
func NewConfig(file string) (*Config, error) {
	v := viper.New()
	if envMap, err := godotenv.Read(envFile); err == nil {
		for k, val := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, val)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout", 5*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:members.db?cache=shared")
	v.SetDefault("database.replicas", []string{})
	v.SetDefault("database.migrate", true)
	v.SetDefault("database.trace", false)
	v.SetDefault("database.metrics", false)
	v.SetDefault("database.name", "members")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("query.projection", "fields")
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"logging.level",
		"server.host",
		"server.port",
		"server.timeout",
		"server.shutdown_timeout",
		"database.driver",
		"database.dsn",
		"database.replicas",
		"database.migrate",
		"database.trace",
		"database.metrics",
		"database.name",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.log_level",
		"query.projection",
	}

	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}
