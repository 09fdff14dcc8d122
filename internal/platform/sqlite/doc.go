// Package sqlite provides an embedded SQLite implementation of the todo store,
// used for local development and tests. It uses the pure Go modernc.org/sqlite
// driver, so no cgo toolchain is needed.
package sqlite
