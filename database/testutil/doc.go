// Package testutil provides an in-memory SQLite database component and
// fixture helpers for tests that exercise repositories against real SQL.
package testutil
