package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/kbukum/toolbox/database/query"
	"github.com/kbukum/toolbox/database/schema"
	"github.com/kbukum/toolbox/logger"
	"github.com/kbukum/toolbox/observability"
)

type options struct {
	registry *schema.Registry
	resolver *schema.Resolver
	log      *logger.Logger
	pageSize int
	pages    query.PageConfig
	maxDepth int
	hook     func(*gorm.DB)
	metrics  *observability.Metrics
	now      func() time.Time
}

// Option configures a Repository.
type Option func(*options)

// WithRegistry resolves related entity names through reg. The repository's
// own entity is registered on it when missing.
func WithRegistry(reg *schema.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithResolver shares a metadata resolver, and its cache, between
// repositories. It takes precedence over WithRegistry.
func WithResolver(r *schema.Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithLogger sets the repository logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithPageSize fixes the page size unless the entity overrides it.
func WithPageSize(n int) Option {
	return func(o *options) { o.pageSize = n }
}

// WithConfig sets the page-size policy.
func WithConfig(cfg query.PageConfig) Option {
	return func(o *options) { o.pages = cfg }
}

// WithMaxDepth bounds related-field expansion for the default resolver.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// WithQueryHook registers a function that receives every compiled filter
// and search query before it runs.
func WithQueryHook(fn func(*gorm.DB)) Option {
	return func(o *options) { o.hook = fn }
}

// WithMetrics records operation counters and durations on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithClock replaces time.Now, used for last_seen and updated_at.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
