package repository

import (
	"context"
	"slices"
	"time"

	"gorm.io/gorm/clause"

	"github.com/kbukum/toolbox/database"
	"github.com/kbukum/toolbox/errors"
	"github.com/kbukum/toolbox/logger"
	"github.com/kbukum/toolbox/observability"
	"github.com/kbukum/toolbox/util"
)

// Create validates attrs, keeps the fillable ones and inserts a new record.
// Nil attributes are dropped so column defaults apply. Validation errors are
// returned unchanged.
func (r *Repository[T]) Create(ctx context.Context, attrs map[string]any) (rec *T, err error) {
	ctx, op := r.start(ctx, "create")
	defer func() { op.End(ctx, err) }()

	return r.create(ctx, attrs, false)
}

func (r *Repository[T]) create(ctx context.Context, attrs map[string]any, keepKey bool) (*T, error) {
	if err := r.validator.Validate(ctx, attrs); err != nil {
		r.log.WithContext(ctx).Warn("validation failed", logger.ErrorFields("create", err))
		return nil, err
	}

	md, err := r.metadata()
	if err != nil {
		return nil, err
	}
	attrs = util.CompactNil(attrs)
	if util.Contains(md.Fillable, LastSeen) {
		if _, ok := attrs[LastSeen]; !ok {
			attrs[LastSeen] = r.now().UTC().Format(time.RFC3339)
		}
	}

	allowed := md.Fillable
	if keepKey {
		allowed = append(slices.Clone(allowed), r.primaryKey)
	}
	attrs = util.Pick(attrs, allowed)

	rec := new(T)
	if err := decode(attrs, rec); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Table(r.table).Create(rec).Error; err != nil {
		return nil, database.FromDatabase(err, r.name)
	}
	return rec, nil
}

// Update persists attrs onto the record with id. A missing record is created
// with id as its primary key and StatusCreated is reported. For an existing
// record only updateable attributes are written; an empty set only touches
// updated_at.
func (r *Repository[T]) Update(ctx context.Context, id string, attrs map[string]any) (status Status, err error) {
	ctx, op := r.start(ctx, "update")
	defer func() { op.End(ctx, err) }()

	current, err := r.take(ctx, id)
	if errors.HasCode(err, errors.ErrCodeNotFound) {
		withKey := util.Merge(attrs, map[string]any{r.primaryKey: id})
		if _, err := r.create(ctx, withKey, true); err != nil {
			return 0, err
		}
		r.log.WithContext(ctx).Info("created record on update", logger.Fields(logger.FieldID, id))
		return StatusCreated, nil
	}
	if err != nil {
		return 0, err
	}

	md, err := r.metadata()
	if err != nil {
		return 0, err
	}
	attrs = util.Pick(attrs, md.Updateable)
	if err := r.validator.ValidateForUpdate(ctx, attrs); err != nil {
		r.log.WithContext(ctx).Warn("validation failed", logger.MergeWithError(logger.Fields(logger.FieldOperation, "update", logger.FieldID, id), err))
		return 0, err
	}

	q := r.db.WithContext(ctx).Model(current).Table(r.table)
	switch {
	case len(attrs) > 0:
		err = q.Updates(attrs).Error
	case r.touchable:
		err = q.Update(updatedAt, r.now()).Error
	}
	if err != nil {
		return 0, database.FromDatabase(err, r.name)
	}
	return StatusUpdated, nil
}

// Destroy deletes the records with the given ids, each of which may itself
// be a comma-separated list, and returns how many rows were removed.
func (r *Repository[T]) Destroy(ctx context.Context, ids ...string) (affected int64, err error) {
	ctx, op := r.start(ctx, "destroy")
	defer func() {
		op.SetAttribute(observability.AttrRowsAffected, affected)
		op.End(ctx, err)
	}()

	var keys []any
	for _, id := range ids {
		for _, one := range util.SplitList(id) {
			keys = append(keys, util.NormalizeID(one))
		}
	}
	if len(keys) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).Table(r.table).
		Where(clause.IN{Column: r.keyColumn(), Values: keys}).
		Delete(new(T))
	if res.Error != nil {
		return 0, database.FromDatabase(res.Error, r.name)
	}
	return res.RowsAffected, nil
}
