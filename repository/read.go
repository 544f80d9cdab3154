package repository

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/toolbox/database"
	"github.com/kbukum/toolbox/database/query"
	"github.com/kbukum/toolbox/errors"
	"github.com/kbukum/toolbox/logger"
	"github.com/kbukum/toolbox/observability"
	"github.com/kbukum/toolbox/util"
)

// Find loads the records named by id, a comma-separated list. Ids are
// deduplicated and sorted; a missing id fails the whole call with NotFound.
func (r *Repository[T]) Find(ctx context.Context, id string) (lookup *Lookup[T], err error) {
	ctx, op := r.start(ctx, "find")
	defer func() { op.End(ctx, err) }()

	ids := util.SortIDs(util.SplitList(id))
	switch len(ids) {
	case 0:
		return nil, errors.MissingField(r.primaryKey)
	case 1:
		rec, err := r.take(ctx, ids[0])
		if err != nil {
			return nil, err
		}
		return &Lookup[T]{One: rec}, nil
	}

	many := make([]T, 0, len(ids))
	for _, one := range ids {
		rec, err := r.take(ctx, one)
		if err != nil {
			return nil, err
		}
		many = append(many, *rec)
	}
	return &Lookup[T]{Many: many}, nil
}

// FindOne loads the record with id.
func (r *Repository[T]) FindOne(ctx context.Context, id string) (rec *T, err error) {
	ctx, op := r.start(ctx, "find_one")
	defer func() { op.End(ctx, err) }()

	return r.take(ctx, id)
}

func (r *Repository[T]) take(ctx context.Context, id string) (*T, error) {
	rec := new(T)
	err := r.base(ctx).
		Where(clause.Eq{Column: r.keyColumn(), Value: util.NormalizeID(id)}).
		Take(rec).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		r.log.WithContext(ctx).Debug("record not found", logger.Fields(logger.FieldID, id))
		return nil, errors.NotFound(r.name, id)
	}
	if err != nil {
		return nil, database.FromDatabase(err, r.name)
	}
	return rec, nil
}

// All loads every record in primary key order.
func (r *Repository[T]) All(ctx context.Context) (records []T, err error) {
	ctx, op := r.start(ctx, "all")
	defer func() { op.End(ctx, err) }()

	if err := r.ordered(r.base(ctx)).Find(&records).Error; err != nil {
		return nil, database.FromDatabase(err, r.name)
	}
	return records, nil
}

// Paginate loads one page of records in primary key order.
func (r *Repository[T]) Paginate(ctx context.Context, page int) (result *query.Result[T], err error) {
	ctx, op := r.start(ctx, "paginate")
	op.SetAttribute(observability.AttrPage, page)
	defer func() { op.End(ctx, err) }()

	return r.page(r.base(ctx), page)
}

// Filter loads one page of records matching req.
func (r *Repository[T]) Filter(ctx context.Context, req query.FilterRequest, page int) (result *query.Result[T], err error) {
	ctx, op := r.start(ctx, "filter")
	op.SetAttribute(observability.AttrFilterCount, len(req.Filters))
	op.SetAttribute(observability.AttrPage, page)
	defer func() { op.End(ctx, err) }()

	q, err := r.compiler.Compile(r.base(ctx), r.entity, req)
	if err != nil {
		return nil, err
	}
	return r.page(q, page)
}

// Search loads one page of records where every term matches at least one
// direct searchable attribute. Without terms it behaves like Paginate.
func (r *Repository[T]) Search(ctx context.Context, terms []string, page int) (result *query.Result[T], err error) {
	ctx, op := r.start(ctx, "search")
	op.SetAttribute(observability.AttrSearchTerms, len(terms))
	op.SetAttribute(observability.AttrPage, page)
	defer func() { op.End(ctx, err) }()

	q := r.base(ctx)
	terms = util.Filter(terms, func(s string) bool { return s != "" })
	if len(terms) > 0 {
		fields, err := r.resolver.DirectSearchable(r.entity)
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			r.log.WithContext(ctx).Warn("search on entity without searchable fields")
		}
		q = query.CompileSearch(q, r.table, terms, fields)
		if r.hook != nil {
			r.hook(q)
		}
	}
	return r.page(q, page)
}

func (r *Repository[T]) page(q *gorm.DB, page int) (*query.Result[T], error) {
	res, err := query.Paginate[T](r.ordered(q), page, r.PageSize())
	if err != nil {
		return nil, database.FromDatabase(err, r.name)
	}
	return res, nil
}
