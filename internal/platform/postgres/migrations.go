package postgres

import "embed"

// Dialect is the goose dialect name for this backend.
const Dialect = "postgres"

// Migrations holds the PostgreSQL schema migrations under "migrations/".
//
//go:embed migrations/*.sql
var Migrations embed.FS
