package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config 服务配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Query    QueryConfig    `mapstructure:"query"`
}

var supportedDrivers = map[string]struct{}{
	"mysql":      {},
	"postgres":   {},
	"postgresql": {},
	"sqlite":     {},
	"sqlite3":    {},
	"sqlserver":  {},
}

// Validate 校验必填项
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("server.port is required")
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if _, ok := supportedDrivers[strings.ToLower(c.Database.Driver)]; !ok {
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns && c.Database.MaxOpenConns > 0 {
		return errors.New("database.max_idle_conns must not exceed database.max_open_conns")
	}
	return nil
}

// ServerAddr host:port
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Timeout         time.Duration `mapstructure:"timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// DatabaseConfig 数据库连接参数
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	Replicas        []string      `mapstructure:"replicas"`
	Migrate         bool          `mapstructure:"migrate"`
	Trace           bool          `mapstructure:"trace"`
	Metrics         bool          `mapstructure:"metrics"`
	Name            string        `mapstructure:"name"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
}

// QueryConfig 检索行为
type QueryConfig struct {
	// Projection fields | bean | constructor
	Projection string `mapstructure:"projection"`
}
