package observability

import (
	"context"
	stderrors "errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/toolbox/component"
	"github.com/kbukum/toolbox/logger"
)

// Component owns the global tracer and meter providers.
type Component struct {
	cfg Config
	svc ServiceInfo
	log *logger.Logger

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates an observability component.
func NewComponent(cfg Config, svc ServiceInfo, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Component{cfg: cfg, svc: svc, log: log.WithComponent("observability")}
}

// Name returns the component name.
func (c *Component) Name() string { return "observability" }

// Start installs the providers. A disabled component starts as a no-op and
// leaves the global noop providers in place.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	tp, err := InitTracer(ctx, c.cfg, c.svc)
	if err != nil {
		return err
	}
	mp, err := InitMeter(ctx, c.cfg, c.svc)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return err
	}
	c.tp, c.mp = tp, mp

	c.log.Info("telemetry export started", logger.Fields(
		"endpoint", c.cfg.Endpoint,
		"sample_rate", c.cfg.SampleRate,
		"interval", c.cfg.MetricInterval.String(),
	))
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.tp != nil {
		errs = append(errs, c.tp.Shutdown(ctx))
		c.tp = nil
	}
	if c.mp != nil {
		errs = append(errs, c.mp.Shutdown(ctx))
		c.mp = nil
	}
	return stderrors.Join(errs...)
}

// Health reports whether telemetry export is running.
func (c *Component) Health(_ context.Context) component.Health {
	switch {
	case !c.cfg.Enabled:
		return component.Health{Name: c.Name(), Status: component.StatusDisabled}
	case c.tp == nil:
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	default:
		return component.Health{Name: c.Name(), Status: component.StatusHealthy}
	}
}

// Describe returns a summary for startup output.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Telemetry",
		Type:    "otlp",
		Details: fmt.Sprintf("endpoint=%s sample=%.2f", c.cfg.Endpoint, c.cfg.SampleRate),
	}
}

// Metrics creates the data-access instruments on the global meter.
func (c *Component) Metrics() (*Metrics, error) {
	return NewMetrics(Meter(defaultTracerName))
}
