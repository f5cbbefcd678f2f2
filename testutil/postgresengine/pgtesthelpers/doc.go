// Package pgtesthelpers provides test utilities for PostgreSQL gateway testing
// with multi-adapter support.
//
// The same test suite runs against all three supported database adapters
// (pgx.Pool, sql.DB, sqlx.DB) through a unified Wrapper interface. Adapter
// selection is controlled via the ADAPTER_TYPE environment variable
// (pgx.pool, sql.db, sqlx.db); an empty value selects pgx.pool.
//
// Utility Functions:
//
//	CreateWrapperWithTestConfig: creates the wrapper selected by ADAPTER_TYPE
//	EnsureSchema: creates the book and person tables if they do not exist
//	CleanUp: truncates both tables for test isolation
package pgtesthelpers
