package component

import (
	"context"
	"testing"
)

type stubComponent struct {
	started bool
}

func (s *stubComponent) Name() string { return "stub" }
func (s *stubComponent) Start(context.Context) error {
	s.started = true
	return nil
}
func (s *stubComponent) Stop(context.Context) error {
	s.started = false
	return nil
}
func (s *stubComponent) Health(context.Context) Health {
	if !s.started {
		return Health{Name: s.Name(), Status: StatusUnhealthy, Message: "not started"}
	}
	return Health{Name: s.Name(), Status: StatusHealthy}
}

var _ Component = (*stubComponent)(nil)

func TestHealth_IsHealthy(t *testing.T) {
	tests := []struct {
		status HealthStatus
		want   bool
	}{
		{StatusHealthy, true},
		{StatusDegraded, true},
		{StatusUnhealthy, false},
		{StatusDisabled, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			if got := (Health{Status: tc.status}).IsHealthy(); got != tc.want {
				t.Errorf("IsHealthy() = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	ctx := context.Background()
	c := &stubComponent{}

	if c.Health(ctx).IsHealthy() {
		t.Error("expected unhealthy before Start")
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !c.Health(ctx).IsHealthy() {
		t.Error("expected healthy after Start")
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if c.Health(ctx).Status != StatusUnhealthy {
		t.Error("expected unhealthy after Stop")
	}
}
