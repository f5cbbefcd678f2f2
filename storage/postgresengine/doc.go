// Package postgresengine implements the storage gateway contract on
// PostgreSQL.
//
// The engine supports three database libraries through an internal adapter
// layer: pgxpool.Pool (recommended), database/sql, and sqlx. All SQL is
// built with goqu. Observability is optional and dependency-free: a logger,
// a context-aware logger and a metrics collector can be plugged in via
// functional options.
package postgresengine
