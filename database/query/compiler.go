package query

import (
	stderrors "errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/toolbox/database/schema"
	"github.com/kbukum/toolbox/errors"
	"github.com/kbukum/toolbox/logger"
	"github.com/kbukum/toolbox/util"
)

// FilterRequest maps filter keys to raw values. Keys may be colon-pathed
// through relations ("oitem:titem:slug"). PostFilter, when set, receives the
// query after every filter has been applied. A nil return keeps the query.
type FilterRequest struct {
	Filters    map[string]any
	PostFilter func(*gorm.DB) *gorm.DB
}

// Compiler turns filter requests into GORM queries.
type Compiler struct {
	registry *schema.Registry
	inspect  func(*gorm.DB)
	log      *logger.Logger
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithInspector registers a hook that receives every compiled query.
func WithInspector(fn func(*gorm.DB)) CompilerOption {
	return func(c *Compiler) { c.inspect = fn }
}

// WithLogger sets the compiler logger.
func WithLogger(l *logger.Logger) CompilerOption {
	return func(c *Compiler) {
		if l != nil {
			c.log = l
		}
	}
}

// NewCompiler creates a compiler resolving related entities through reg.
func NewCompiler(reg *schema.Registry, opts ...CompilerOption) *Compiler {
	if reg == nil {
		reg = schema.NewRegistry()
	}
	c := &Compiler{registry: reg, log: logger.Get("query")}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile ANDs every filter of req onto base and returns the unexecuted
// query. Keys are applied in sorted order.
//
// A key without a path applies to root's table. Its value is reduced with
// SplitOperator; a bare value becomes a plain equality. A pathed key becomes
// a chain of EXISTS subqueries, one per relation, with the comparison on the
// innermost table.
func (c *Compiler) Compile(base *gorm.DB, root schema.Entity, req FilterRequest) (*gorm.DB, error) {
	if root == nil {
		return nil, errors.InvalidInput("entity", "entity must not be nil")
	}

	q := base
	seq := 0
	for _, key := range util.SortedKeys(req.Filters) {
		value := req.Filters[key]
		var err error
		if strings.Contains(key, schema.PathSeparator) {
			q, err = c.applyRelated(q, root, key, value, &seq)
		} else {
			q, err = c.applyDirect(q, root, key, value)
		}
		if err != nil {
			c.log.WithError(err).Debug("filter rejected", logger.Fields(
				logger.FieldEntity, root.EntityName(),
				logger.FieldFilterKey, key,
			))
			return nil, err
		}
	}

	if req.PostFilter != nil {
		if post := req.PostFilter(q); post != nil {
			q = post
		}
	}
	if c.inspect != nil {
		c.inspect(q)
	}
	return q, nil
}

func (c *Compiler) applyDirect(q *gorm.DB, root schema.Entity, key string, value any) (*gorm.DB, error) {
	col := clause.Column{Table: root.TableName(), Name: key}

	rawOp, operand, err := SplitOperator(value)
	if stderrors.Is(err, ErrNoOperator) {
		c.log.Debug("equality fallback", logger.Fields(
			logger.FieldEntity, root.EntityName(),
			logger.FieldFilterKey, key,
		))
		return q.Where(clause.Eq{Column: col, Value: value}), nil
	}

	op, err := ParseOperation(key, rawOp, operand)
	if err != nil {
		return nil, err
	}
	return q.Where(op.Comparator.Expression(col, op.Value)), nil
}

func (c *Compiler) applyRelated(q *gorm.DB, root schema.Entity, key string, value any, seq *int) (*gorm.DB, error) {
	rawOp, operand, err := SplitOperator(value)
	if stderrors.Is(err, ErrNoOperator) {
		rawOp, operand = "=", value
	}

	op, err := ParseOperation(key, rawOp, operand)
	if err != nil {
		return nil, err
	}

	sub, err := c.exists(q, root, root.TableName(), op, seq)
	if err != nil {
		return nil, err
	}
	return q.Where("EXISTS (?)", sub), nil
}

// exists builds the subquery for the outermost relation left on op's path,
// correlated with owner through ownerRef, recursing for the rest of the path.
func (c *Compiler) exists(base *gorm.DB, owner schema.Entity, ownerRef string, op *Operation, seq *int) (*gorm.DB, error) {
	name, err := op.PullInclude()
	if err != nil {
		return nil, err
	}
	related, rel, err := c.registry.Related(owner, name)
	if err != nil {
		return nil, err
	}

	*seq++
	alias := fmt.Sprintf("rel_%d", *seq)
	sub := base.Session(&gorm.Session{NewDB: true}).
		Table(related.TableName() + " AS " + alias).
		Select("1")
	if sub, err = correlate(sub, rel, ownerRef, alias); err != nil {
		return nil, err
	}

	if op.HasIncludes() {
		inner, err := c.exists(base, related, alias, op, seq)
		if err != nil {
			return nil, err
		}
		return sub.Where("EXISTS (?)", inner), nil
	}
	return sub.Where(op.Comparator.Expression(clause.Column{Table: alias, Name: op.Field}, op.Value)), nil
}

// correlate joins the related alias to its owner according to the relation kind.
func correlate(sub *gorm.DB, rel schema.Relation, ownerRef, alias string) (*gorm.DB, error) {
	switch rel.Kind {
	case schema.HasOne, schema.HasMany, "":
		if rel.ForeignKey == "" {
			return nil, errors.InvalidInput(rel.Name, "relation "+rel.Name+" has no foreign key")
		}
		return sub.Where("? = ?",
			clause.Column{Table: alias, Name: rel.ForeignKey},
			clause.Column{Table: ownerRef, Name: rel.Local()}), nil
	case schema.BelongsTo:
		if rel.ForeignKey == "" {
			return nil, errors.InvalidInput(rel.Name, "relation "+rel.Name+" has no foreign key")
		}
		return sub.Where("? = ?",
			clause.Column{Table: alias, Name: rel.Owner()},
			clause.Column{Table: ownerRef, Name: rel.ForeignKey}), nil
	case schema.ManyToMany:
		if rel.JoinTable == "" || rel.JoinForeignKey == "" || rel.JoinReferenceKey == "" {
			return nil, errors.InvalidInput(rel.Name, "relation "+rel.Name+" has an incomplete join table")
		}
		pivot := alias + "_pivot"
		return sub.
			Joins("JOIN "+rel.JoinTable+" AS "+pivot+" ON ? = ?",
				clause.Column{Table: pivot, Name: rel.JoinReferenceKey},
				clause.Column{Table: alias, Name: rel.Owner()}).
			Where("? = ?",
				clause.Column{Table: pivot, Name: rel.JoinForeignKey},
				clause.Column{Table: ownerRef, Name: rel.Local()}), nil
	default:
		return nil, errors.InvalidInput(rel.Name, "relation "+rel.Name+" has unknown kind "+string(rel.Kind))
	}
}
