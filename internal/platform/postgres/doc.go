// Package postgres provides the PostgreSQL implementation of the todo store
// defined in internal/store, together with its embedded schema migrations.
// Connections are opened through the pgx stdlib driver ("pgx").
package postgres
