package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/toolbox/database/query"
	"github.com/kbukum/toolbox/database/schema"
	"github.com/kbukum/toolbox/errors"
	"github.com/kbukum/toolbox/logger"
	"github.com/kbukum/toolbox/observability"
	"github.com/kbukum/toolbox/validation"
)

// LastSeen is filled with the current time on create when fillable and absent.
const LastSeen = "last_seen"

const updatedAt = "updated_at"

// Status reports how Update persisted a record.
type Status int

const (
	StatusCreated Status = 201
	StatusUpdated Status = 202
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusUpdated:
		return "updated"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Lookup is the result of Find. One is set for a single id, Many otherwise.
type Lookup[T any] struct {
	One  *T
	Many []T
}

// Records returns the found records as a slice regardless of arity.
func (l *Lookup[T]) Records() []T {
	if l == nil {
		return nil
	}
	if l.One != nil {
		return []T{*l.One}
	}
	return l.Many
}

// Repository is a CRUD, filter and search facade over one entity type. It
// holds no per-call state and is safe for concurrent use.
type Repository[T any] struct {
	db        *gorm.DB
	entity    schema.Entity
	validator validation.Validator
	resolver  *schema.Resolver
	compiler  *query.Compiler
	log       *logger.Logger
	metrics   *observability.Metrics
	hook      func(*gorm.DB)
	pages     query.PageConfig
	pageSize  int
	now       func() time.Time

	name       string
	table      string
	primaryKey string
	touchable  bool
}

// New creates a repository persisting T for entity. A nil validator accepts
// everything.
func New[T any](db *gorm.DB, entity schema.Entity, validator validation.Validator, opts ...Option) (*Repository[T], error) {
	if db == nil {
		return nil, errors.MissingField("db")
	}
	if entity == nil {
		return nil, errors.MissingField("entity")
	}
	if validator == nil {
		validator = validation.Nop{}
	}

	o := &options{
		log:      logger.Get("repository"),
		maxDepth: schema.DefaultMaxDepth,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.pages.ApplyDefaults()
	if err := o.pages.Validate(); err != nil {
		return nil, errors.InvalidInput("pagination", err.Error())
	}

	log := o.log.WithEntity(entity.EntityName())
	resolver := o.resolver
	if resolver == nil {
		reg := o.registry
		if reg == nil {
			reg = schema.NewRegistry()
		}
		resolver = schema.NewResolver(reg, schema.WithMaxDepth(o.maxDepth), schema.WithLogger(log))
	}
	if _, ok := resolver.Registry().Lookup(entity.EntityName()); !ok {
		resolver.Registry().Register(entity)
	}

	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(T)); err != nil {
		return nil, errors.InvalidInput("model", err.Error()).WithCause(err)
	}
	pk := "id"
	if f := stmt.Schema.PrioritizedPrimaryField; f != nil {
		pk = f.DBName
	}

	return &Repository[T]{
		db:         db,
		entity:     entity,
		validator:  validator,
		resolver:   resolver,
		compiler:   query.NewCompiler(resolver.Registry(), query.WithInspector(o.hook), query.WithLogger(log)),
		log:        log,
		metrics:    o.metrics,
		hook:       o.hook,
		pages:      o.pages,
		pageSize:   o.pageSize,
		now:        o.now,
		name:       entity.EntityName(),
		table:      entity.TableName(),
		primaryKey: pk,
		touchable:  stmt.Schema.LookUpField(updatedAt) != nil,
	}, nil
}

// Entity returns the entity descriptor.
func (r *Repository[T]) Entity() schema.Entity { return r.entity }

// Resolver returns the metadata resolver.
func (r *Repository[T]) Resolver() *schema.Resolver { return r.resolver }

// PrimaryKey returns the primary key column.
func (r *Repository[T]) PrimaryKey() string { return r.primaryKey }

// PageSize is the entity override, then the configured size, then the
// default, clamped to the configured maximum.
func (r *Repository[T]) PageSize() int {
	if s, ok := r.entity.(query.PageSizer); ok && s.PerPage() > 0 {
		return r.pages.Size(s.PerPage())
	}
	return r.pages.Size(r.pageSize)
}

// FillableFields returns the attributes accepted on create.
func (r *Repository[T]) FillableFields() []string {
	md, err := r.metadata()
	if err != nil {
		return nil
	}
	return md.Fillable
}

// UpdateableFields returns the attributes accepted on update.
func (r *Repository[T]) UpdateableFields() []string {
	md, err := r.metadata()
	if err != nil {
		return nil
	}
	return md.Updateable
}

// SearchableFields returns the searchable attributes, qualified related
// fields included when withRelated is set.
func (r *Repository[T]) SearchableFields(ctx context.Context, withRelated bool) (fields []string, err error) {
	ctx, op := r.start(ctx, "searchable_fields")
	defer func() { op.End(ctx, err) }()

	md, err := r.resolver.Resolve(r.entity, withRelated, -1)
	if err != nil {
		return nil, err
	}
	return md.Searchable, nil
}

func (r *Repository[T]) metadata() (*schema.FieldMetadata, error) {
	return r.resolver.Resolve(r.entity, false, 0)
}

func (r *Repository[T]) start(ctx context.Context, name string) (context.Context, *observability.Operation) {
	return observability.StartOperation(ctx, "repository", r.name, name, r.metrics)
}

func (r *Repository[T]) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(new(T)).Table(r.table)
}

func (r *Repository[T]) keyColumn() clause.Column {
	return clause.Column{Table: r.table, Name: r.primaryKey}
}

func (r *Repository[T]) ordered(q *gorm.DB) *gorm.DB {
	if _, ok := q.Statement.Clauses["ORDER BY"]; ok {
		return q
	}
	return q.Order(clause.OrderByColumn{Column: r.keyColumn()})
}
