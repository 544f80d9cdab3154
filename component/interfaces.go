package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusDisabled  HealthStatus = "disabled"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// IsHealthy reports whether the status is healthy or degraded.
func (h Health) IsHealthy() bool {
	return h.Status == StatusHealthy || h.Status == StatusDegraded
}

// Component is a lifecycle-managed piece of infrastructure, such as the
// database connection backing a repository.
type Component interface {
	// Name returns the unique name of the component.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description holds summary information a component reports about itself.
type Description struct {
	// Name is the human-readable display name (e.g., "SQLite", "PostgreSQL").
	Name string
	// Type categorizes the component: "database", ...
	Type string
	// Details is a one-liner such as "pool=25/5 driver=postgres".
	Details string
}

// Describable is optionally implemented by Components to self-report
// what they are and how they're configured.
type Describable interface {
	Describe() Description
}
