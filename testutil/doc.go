// Package testutil extends the component lifecycle with test-only state
// control (Reset, Snapshot, Restore) and wires it into testing.T.
//
//	func TestRepository(t *testing.T) {
//	    db := dbtestutil.NewComponent().WithModels(&Item{})
//	    testutil.T(t).Setup(db)
//	    // db is stopped when the test ends
//	}
package testutil
