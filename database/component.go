package database

import (
	"context"
	"fmt"

	"github.com/kbukum/toolbox/component"
	"github.com/kbukum/toolbox/logger"
)

// Component wraps DB and implements component.Component.
type Component struct {
	db     *DB
	cfg    Config
	log    *logger.Logger
	driver DialectorFunc
	models []interface{}
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a database component. The dialector is picked from
// cfg.Driver unless WithDriver overrides it.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Component{
		cfg: cfg,
		log: log.WithComponent("database"),
	}
}

// WithDriver overrides the dialector constructor.
func (c *Component) WithDriver(fn DialectorFunc) *Component {
	c.driver = fn
	return c
}

// WithAutoMigrate registers models for auto-migration on Start.
func (c *Component) WithAutoMigrate(models ...interface{}) *Component {
	c.models = append(c.models, models...)
	return c
}

// DB returns the underlying *DB, or nil if not started.
func (c *Component) DB() *DB {
	return c.db
}

// Name returns the component name.
func (c *Component) Name() string { return "database" }

// Start connects to the database and optionally runs auto-migration.
// A disabled component starts as a no-op.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		c.log.Info("Database component disabled")
		return nil
	}
	if err := c.cfg.Validate(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	var (
		db  *DB
		err error
	)
	if c.driver != nil {
		db, err = NewWithDialector(ctx, c.driver(c.cfg.DSN), c.cfg, c.log)
	} else {
		db, err = New(ctx, c.cfg, c.log)
	}
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	c.db = db

	if c.cfg.AutoMigrate && len(c.models) > 0 {
		if err := c.db.AutoMigrate(c.models...); err != nil {
			return fmt.Errorf("database auto-migrate: %w", err)
		}
	}
	return nil
}

// Stop closes the database connection.
func (c *Component) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Health returns the current health status of the database.
func (c *Component) Health(ctx context.Context) component.Health {
	if !c.cfg.Enabled {
		return component.Health{Name: c.Name(), Status: component.StatusDisabled}
	}
	if c.db == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "database not initialized"}
	}
	if status := c.db.CheckHealth(ctx); !status.Connected {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "ping failed: " + status.Error}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe reports the driver and pool settings.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("driver=%s pool=%d/%d", c.cfg.Driver, c.cfg.MaxOpenConns, c.cfg.MaxIdleConns)
	if c.cfg.AutoMigrate {
		details += " auto-migrate=on"
	}
	name := "PostgreSQL"
	if c.cfg.Driver == DriverSQLite {
		name = "SQLite"
	}
	return component.Description{Name: name, Type: "database", Details: details}
}
