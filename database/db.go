package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/kbukum/toolbox/logger"
	"github.com/kbukum/toolbox/resilience"
)

// DB wraps a GORM database with toolbox logging.
type DB struct {
	GormDB *gorm.DB
	log    *logger.Logger
	cfg    Config
	closed bool
	mu     sync.Mutex
}

// New opens a connection for cfg.Driver with retry and connection pooling.
func New(ctx context.Context, cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()
	d, err := Dialector(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	return NewWithDialector(ctx, d, cfg, log)
}

// NewWithDialector opens a connection through an explicit dialector. The
// context cancels pending retries.
func NewWithDialector(ctx context.Context, d gorm.Dialector, cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Get("database")
	}

	gormCfg := &gorm.Config{
		Logger:         NewGormLogger(log, durationOr(cfg.SlowQueryThreshold, 200*time.Millisecond), ParseLogLevel(cfg.LogLevel)),
		TranslateError: true,
	}
	policy := resilience.Policy{
		Attempts:   cfg.MaxRetries,
		Backoff:    durationOr(cfg.RetryBackoff, time.Second),
		MaxBackoff: 30 * time.Second,
		Factor:     2,
		Jitter:     0.1,
		RetryIf: func(err error) bool {
			return ctx.Err() == nil && resilience.Retryable(err)
		},
		OnRetry: func(attempt int, err error, wait time.Duration) {
			log.Warn("Database connection attempt failed", logger.Fields("attempt", attempt, "retry_in", wait.String(), logger.FieldError, err.Error()))
		},
	}

	db, err := resilience.Do(ctx, policy, func(ctx context.Context) (*gorm.DB, error) {
		return open(ctx, d, gormCfg)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("database connection canceled: %w", err)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	configurePool(db, cfg)
	log.Info("Database connection established", logger.Fields("driver", cfg.Driver))
	return &DB{GormDB: db, log: log, cfg: cfg}, nil
}

func open(ctx context.Context, d gorm.Dialector, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(d, gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func configurePool(db *gorm.DB, cfg Config) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	// every connection to ":memory:" is a fresh database
	if cfg.IsMemory() {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		return
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(durationOr(cfg.ConnMaxLifetime, time.Hour))
	if cfg.ConnMaxIdleTime != "" {
		sqlDB.SetConnMaxIdleTime(durationOr(cfg.ConnMaxIdleTime, 5*time.Minute))
	}
}

// Close closes the underlying sql.DB connection pool. Safe to call multiple times.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	sqlDB, err := d.GormDB.DB()
	if err != nil {
		return err
	}
	d.log.Info("Closing database connection")
	d.closed = true
	return sqlDB.Close()
}

// PingContext verifies the database connection is alive.
func (d *DB) PingContext(ctx context.Context) error {
	sqlDB, err := d.GormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// WithContext returns a GORM session scoped to the given context.
func (d *DB) WithContext(ctx context.Context) *gorm.DB {
	return d.GormDB.WithContext(ctx)
}

// Config returns the effective configuration.
func (d *DB) Config() Config {
	return d.cfg
}

// AutoMigrate creates or alters tables for the given models.
func (d *DB) AutoMigrate(models ...interface{}) error {
	d.log.Info("Running auto-migration", logger.Fields("models", len(models)))
	for _, model := range models {
		if err := d.GormDB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}
	return nil
}

// HealthStatus reports pool state from a health probe.
type HealthStatus struct {
	Connected  bool          `json:"connected"`
	Error      string        `json:"error,omitempty"`
	Latency    time.Duration `json:"latency"`
	OpenConns  int           `json:"open_connections"`
	InUseConns int           `json:"in_use_connections"`
	IdleConns  int           `json:"idle_connections"`
}

// CheckHealth pings the database and reports pool statistics.
func (d *DB) CheckHealth(ctx context.Context) HealthStatus {
	start := time.Now()

	sqlDB, err := d.GormDB.DB()
	if err != nil {
		return HealthStatus{Error: err.Error(), Latency: time.Since(start)}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return HealthStatus{Error: err.Error(), Latency: time.Since(start)}
	}

	stats := sqlDB.Stats()
	return HealthStatus{
		Connected:  true,
		Latency:    time.Since(start),
		OpenConns:  stats.OpenConnections,
		InUseConns: stats.InUse,
		IdleConns:  stats.Idle,
	}
}
