package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/toolbox/errors"
)

// Status values recorded for finished operations.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Operation is one traced and measured call, e.g. "repository.create".
type Operation struct {
	Component string
	Entity    string
	Name      string
	StartTime time.Time
	Metrics   *Metrics

	span trace.Span
}

// StartOperation opens a span named "<component>.<name>". Metrics may be nil.
func StartOperation(ctx context.Context, component, entity, name string, metrics *Metrics) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, component+"."+name)
	span.SetAttributes(
		attribute.String(AttrEntity, entity),
		attribute.String(AttrOperation, name),
	)
	return ctx, &Operation{
		Component: component,
		Entity:    entity,
		Name:      name,
		StartTime: time.Now(),
		Metrics:   metrics,
		span:      span,
	}
}

// SetAttribute sets an attribute on the operation span.
func (o *Operation) SetAttribute(key string, value any) {
	if kv, ok := toAttribute(key, value); ok {
		o.span.SetAttributes(kv)
	}
}

// End closes the span and records the outcome. err may be nil.
func (o *Operation) End(ctx context.Context, err error) {
	duration := o.Duration()
	status := StatusOK

	if err != nil {
		status = StatusError
		code := string(errors.ErrCodeInternal)
		if appErr, ok := errors.AsAppError(err); ok {
			code = string(appErr.Code)
		}
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
		o.span.SetAttributes(attribute.String(AttrErrorCode, code))
		if o.Metrics != nil {
			o.Metrics.RecordError(ctx, code, o.Entity)
		}
	}

	o.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	o.span.End()

	if o.Metrics != nil {
		o.Metrics.RecordOperation(ctx, o.Entity, o.Name, status, duration)
	}
}

// Duration returns the elapsed time since the operation started.
func (o *Operation) Duration() time.Duration {
	return time.Since(o.StartTime)
}
