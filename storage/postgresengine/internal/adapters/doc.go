// Package adapters provides database adapter implementations for the
// PostgreSQL storage gateway.
//
// It implements the adapter pattern to support multiple PostgreSQL client
// libraries: pgxpool.Pool, sql.DB, and sqlx.DB. All adapters provide
// equivalent functionality through a common DBAdapter interface, so the
// gateway works with any supported connection type.
package adapters
