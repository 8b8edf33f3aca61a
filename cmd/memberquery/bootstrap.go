package main

import (
	"os"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm/logger"

	member "github.com/tx7do/go-crud-member"
	"github.com/tx7do/go-crud-member/config"
	"github.com/tx7do/go-crud-member/projection"
)

// app 命令共用的依赖
type app struct {
	cfg    *config.Config
	logger log.Logger
	client *member.Client
	repo   *member.Repository
}

func newLogger(level string) log.Logger {
	l := log.With(log.NewStdLogger(os.Stderr),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
	)
	return log.NewFilter(l, log.FilterLevel(log.ParseLevel(level)))
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}

func clientOptions(cfg *config.Config, l log.Logger) []member.ClientOption {
	db := cfg.Database
	return []member.ClientOption{
		member.WithDriver(db.Driver),
		member.WithDSN(db.DSN),
		member.WithReplicas(db.Replicas...),
		member.WithMigrate(db.Migrate),
		member.WithTrace(db.Trace),
		member.WithMetrics(db.Metrics, db.Name),
		member.WithPool(db.MaxOpenConns, db.MaxIdleConns, db.ConnMaxLifetime),
		member.WithLogLevel(gormLogLevel(db.LogLevel)),
		member.WithClientLogger(l),
	}
}

// bootstrap 读取配置并打开数据库，migrate 覆盖配置中的自动迁移开关
func bootstrap(configFile string, migrate bool) (*app, error) {
	cfg, err := config.NewConfig(configFile)
	if err != nil {
		return nil, err
	}
	if migrate {
		cfg.Database.Migrate = true
	}

	l := newLogger(cfg.Logging.Level)

	strategy, err := projection.ParseStrategy(cfg.Query.Projection)
	if err != nil {
		return nil, err
	}

	client, err := member.NewClient(clientOptions(cfg, l)...)
	if err != nil {
		return nil, err
	}

	repo, err := member.NewRepository(client.DB,
		member.WithLogger(l),
		member.WithProjectionStrategy(strategy),
	)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	return &app{cfg: cfg, logger: l, client: client, repo: repo}, nil
}

func (a *app) Close() {
	if err := a.client.Close(); err != nil {
		log.NewHelper(a.logger).Warnf("close database failed: %s", err.Error())
	}
}
