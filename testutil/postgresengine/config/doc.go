// Package config provides database configurations for PostgreSQL gateway tests.
//
// The configurations cover all three supported database adapters (pgx.Pool,
// sql.DB, sqlx.DB) so the same test suite can run against each of them.
// The DSN can be overridden via the LIBRIS_TEST_POSTGRES_DSN environment
// variable; the default targets the local docker-compose test database.
package config
