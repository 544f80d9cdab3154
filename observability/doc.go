// Package observability wires OpenTelemetry tracing and metrics for
// data-access operations.
//
// Every repository call runs inside an Operation, which opens a span named
// "repository.<op>" and, when Metrics are supplied, records the
// operation.total, operation.duration and error.total instruments:
//
//	ctx, op := observability.StartOperation(ctx, "repository", "Item", "find", metrics)
//	defer func() { op.End(ctx, err) }()
//
// Export over OTLP/HTTP is enabled by starting a Component:
//
//	observability:
//	  enabled: true
//	  endpoint: "localhost:4318"
//	  sample_rate: 0.5
package observability
