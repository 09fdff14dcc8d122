// Package testutils provides helpers shared by tests across packages.
//
// # Logs
//
// LogRecorder captures slog records in memory so tests can assert on what a
// component logged:
//
//	rec := testutils.NewLogRecorder()
//	svc := service.NewThing(rec.Logger())
//	...
//	entry, ok := rec.Find("summary run failed")
//
// # Databases
//
// OpenSQLite returns a migrated in-memory SQLite database that is closed when
// the test ends:
//
//	db := testutils.OpenSQLite(t)
//	store := sqlite.NewTodoStore(db, nil)
package testutils
