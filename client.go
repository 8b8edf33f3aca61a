package member

import (
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gorm.io/plugin/dbresolver"
	"gorm.io/plugin/opentelemetry/tracing"
	gormPrometheus "gorm.io/plugin/prometheus"

	glebarezSqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
)

type gormLoggerWriter struct {
	helper *log.Helper
}

func (w gormLoggerWriter) Printf(format string, args ...interface{}) {
	w.helper.Debugf(format, args...)
}

func NewGormLogger(l *log.Helper, level logger.LogLevel) logger.Interface {
	w := gormLoggerWriter{helper: l}
	return logger.New(
		w,
		logger.Config{
			SlowThreshold:             time.Millisecond * 100, // 慢 SQL 阈值
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

type clientOptions struct {
	driverName string
	dsn        string
	replicas   []string

	enableMigrate bool
	enableTrace   bool
	enableMetrics bool
	metricsDBName string

	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration

	logLevel logger.LogLevel
	gormCfg  *gorm.Config
	logger   log.Logger
}

// ClientOption 客户端选项
type ClientOption func(*clientOptions)

func WithDriver(name string) ClientOption {
	return func(o *clientOptions) { o.driverName = name }
}

func WithDSN(dsn string) ClientOption {
	return func(o *clientOptions) { o.dsn = dsn }
}

// WithReplicas 只读副本，查询经 dbresolver 路由到副本
func WithReplicas(dsns ...string) ClientOption {
	return func(o *clientOptions) { o.replicas = append(o.replicas, dsns...) }
}

func WithMigrate(enable bool) ClientOption {
	return func(o *clientOptions) { o.enableMigrate = enable }
}

func WithTrace(enable bool) ClientOption {
	return func(o *clientOptions) { o.enableTrace = enable }
}

// WithMetrics 开启 gorm prometheus 指标，dbName 作为指标的 db 标签
func WithMetrics(enable bool, dbName string) ClientOption {
	return func(o *clientOptions) {
		o.enableMetrics = enable
		o.metricsDBName = dbName
	}
}

func WithPool(maxOpen, maxIdle int, maxLifetime time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.maxOpenConns = maxOpen
		o.maxIdleConns = maxIdle
		o.connMaxLifetime = maxLifetime
	}
}

func WithLogLevel(level logger.LogLevel) ClientOption {
	return func(o *clientOptions) { o.logLevel = level }
}

func WithGormConfig(cfg *gorm.Config) ClientOption {
	return func(o *clientOptions) { o.gormCfg = cfg }
}

func WithClientLogger(l log.Logger) ClientOption {
	return func(o *clientOptions) { o.logger = l }
}

type Client struct {
	*gorm.DB

	log *log.Helper
}

func NewClient(opts ...ClientOption) (*Client, error) {
	o := &clientOptions{
		driverName: "sqlite",
		dsn:        ":memory:",
		logLevel:   logger.Warn,
		logger:     log.GetLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.gormCfg == nil {
		o.gormCfg = &gorm.Config{}
	}

	c := &Client{
		log: log.NewHelper(log.With(o.logger, "module", "member/client")),
	}
	if o.gormCfg.Logger == nil {
		o.gormCfg.Logger = NewGormLogger(c.log, o.logLevel)
	}

	if err := c.createGormClient(o); err != nil {
		return nil, err
	}
	return c, nil
}

// openDialector 根据驱动名创建 Dialector
func openDialector(driverName, dsn string) (gorm.Dialector, error) {
	switch driverName {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	case "sqlite":
		// 纯 Go 实现，无需 cgo
		return glebarezSqlite.Open(dsn), nil
	case "sqlite3":
		return sqlite.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driverName)
	}
}

// createGormClient 创建GORM的客户端
func (c *Client) createGormClient(o *clientOptions) error {
	driver, err := openDialector(o.driverName, o.dsn)
	if err != nil {
		return err
	}

	client, err := gorm.Open(driver, o.gormCfg)
	if err != nil {
		return fmt.Errorf("failed opening connection to db: %w", err)
	}

	if len(o.replicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(o.replicas))
		for _, dsn := range o.replicas {
			d, err := openDialector(o.driverName, dsn)
			if err != nil {
				return err
			}
			replicas = append(replicas, d)
		}
		if err = client.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return fmt.Errorf("failed registering db resolver: %w", err)
		}
	}

	if o.enableTrace {
		var opts []tracing.Option
		// 指标由 prometheus 插件负责时，关闭 tracing 插件自带的指标
		if o.enableMetrics {
			opts = append(opts, tracing.WithoutMetrics())
		}
		if err = client.Use(tracing.NewPlugin(opts...)); err != nil {
			return fmt.Errorf("failed registering tracing plugin: %w", err)
		}
	}

	if o.enableMetrics {
		name := o.metricsDBName
		if name == "" {
			name = o.driverName
		}
		if err = client.Use(gormPrometheus.New(gormPrometheus.Config{
			DBName:          name,
			RefreshInterval: 15,
			StartServer:     false,
		})); err != nil {
			return fmt.Errorf("failed registering prometheus plugin: %w", err)
		}
	}

	sqlDB, err := client.DB()
	if err != nil {
		return fmt.Errorf("failed getting sql.DB: %w", err)
	}
	if o.maxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(o.maxOpenConns)
	}
	if o.maxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(o.maxIdleConns)
	}
	if o.connMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(o.connMaxLifetime)
	}

	// 运行数据库迁移工具
	if o.enableMigrate {
		if err = client.AutoMigrate(getRegisteredMigrateModels()...); err != nil {
			return fmt.Errorf("failed creating schema resources: %w", err)
		}
	}

	c.DB = client
	c.log.Infof("database client ready, driver=%s replicas=%d", o.driverName, len(o.replicas))

	return nil
}

// Close 关闭底层连接池
func (c *Client) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
