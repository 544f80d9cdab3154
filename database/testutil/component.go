package testutil

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/kbukum/toolbox/component"
	"github.com/kbukum/toolbox/database"
	"github.com/kbukum/toolbox/logger"
	"github.com/kbukum/toolbox/testutil"
)

// Component is an in-memory SQLite database for tests. Every Start opens a
// fresh database.
type Component struct {
	db      *database.DB
	models  []interface{}
	log     *logger.Logger
	started bool
	mu      sync.RWMutex
}

var (
	_ component.Component    = (*Component)(nil)
	_ testutil.TestComponent = (*Component)(nil)
)

// NewComponent creates a new test database component.
func NewComponent() *Component {
	return &Component{log: logger.Nop()}
}

// WithModels registers models for auto-migration on Start.
func (c *Component) WithModels(models ...interface{}) *Component {
	c.models = append(c.models, models...)
	return c
}

// WithLogger routes SQL traces to l at debug level.
func (c *Component) WithLogger(l *logger.Logger) *Component {
	c.log = l
	return c
}

// DB returns the underlying *gorm.DB, or nil if not started.
func (c *Component) DB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.db == nil {
		return nil
	}
	return c.db.GormDB
}

// Name returns the component name.
func (c *Component) Name() string {
	return "database-test"
}

// Start opens the in-memory database and migrates registered models.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return fmt.Errorf("component already started")
	}

	cfg := database.Config{
		Enabled:    true,
		Driver:     database.DriverSQLite,
		DSN:        ":memory:",
		MaxRetries: 1,
		LogLevel:   "info",
	}
	db, err := database.New(ctx, cfg, c.log)
	if err != nil {
		return fmt.Errorf("failed to open test database: %w", err)
	}
	c.db = db
	c.started = true

	if len(c.models) > 0 {
		if err := c.db.AutoMigrate(c.models...); err != nil {
			return fmt.Errorf("auto-migrate failed: %w", err)
		}
	}
	return nil
}

// Stop closes the database connection.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started || c.db == nil {
		return nil
	}
	c.started = false
	err := c.db.Close()
	c.db = nil
	return err
}

// Health returns the health status of the test database.
func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started || c.db == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "database not started"}
	}
	if err := c.db.PingContext(ctx); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: fmt.Sprintf("ping failed: %v", err)}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Reset clears all rows from all tables while preserving the schema.
func (c *Component) Reset(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started || c.db == nil {
		return fmt.Errorf("component not started")
	}
	return TruncateAllTables(c.db.WithContext(ctx))
}

// Snapshot captures every row of every table.
func (c *Component) Snapshot(ctx context.Context) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started || c.db == nil {
		return nil, fmt.Errorf("component not started")
	}

	db := c.db.WithContext(ctx)
	tables, err := GetTableNames(db)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	snapshot := make(map[string][]map[string]interface{}, len(tables))
	for _, table := range tables {
		var rows []map[string]interface{}
		if err := db.Table(table).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to snapshot table %s: %w", table, err)
		}
		snapshot[table] = rows
	}
	return snapshot, nil
}

// Restore returns the database to a state captured by Snapshot.
func (c *Component) Restore(ctx context.Context, snap interface{}) error {
	snapshot, ok := snap.(map[string][]map[string]interface{})
	if !ok {
		return fmt.Errorf("invalid snapshot type: expected map[string][]map[string]interface{}, got %T", snap)
	}
	if err := c.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset before restore: %w", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	db := c.db.WithContext(ctx)
	for table, rows := range snapshot {
		if err := LoadFixture(db, table, rows); err != nil {
			return err
		}
	}
	return nil
}
