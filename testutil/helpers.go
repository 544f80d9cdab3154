package testutil

import (
	"context"
	"testing"
)

// CleanupFunc stops a component started by Setup.
type CleanupFunc func() error

// Setup starts a test component and returns a cleanup function.
//
//	cleanup, err := testutil.Setup(db)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer cleanup()
func Setup(ctx context.Context, c TestComponent) (CleanupFunc, error) {
	if err := c.Start(ctx); err != nil {
		return nil, err
	}
	return func() error { return c.Stop(ctx) }, nil
}

// THelper binds component helpers to a testing.TB.
type THelper struct {
	t   testing.TB
	ctx context.Context
}

// T wraps a testing.TB to provide helper methods.
func T(t testing.TB) *THelper {
	return &THelper{t: t, ctx: context.Background()}
}

// WithContext sets a custom context for the helper.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Setup starts a component and stops it when the test ends.
func (h *THelper) Setup(c TestComponent) {
	h.t.Helper()
	if err := c.Start(h.ctx); err != nil {
		h.t.Fatalf("failed to start component %s: %v", c.Name(), err)
	}
	h.t.Cleanup(func() {
		if err := c.Stop(h.ctx); err != nil {
			h.t.Errorf("failed to stop component %s: %v", c.Name(), err)
		}
	})
}

// Reset resets a component to its initial state.
func (h *THelper) Reset(c TestComponent) {
	h.t.Helper()
	if err := c.Reset(h.ctx); err != nil {
		h.t.Fatalf("failed to reset component %s: %v", c.Name(), err)
	}
}

// Snapshot captures the current state of a component.
func (h *THelper) Snapshot(c TestComponent) interface{} {
	h.t.Helper()
	snapshot, err := c.Snapshot(h.ctx)
	if err != nil {
		h.t.Fatalf("failed to snapshot component %s: %v", c.Name(), err)
	}
	return snapshot
}

// Restore restores a component to a previously captured state.
func (h *THelper) Restore(c TestComponent, snapshot interface{}) {
	h.t.Helper()
	if err := c.Restore(h.ctx, snapshot); err != nil {
		h.t.Fatalf("failed to restore component %s: %v", c.Name(), err)
	}
}
