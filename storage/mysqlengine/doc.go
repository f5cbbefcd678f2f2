// Package mysqlengine implements the storage gateway contract on MySQL via
// database/sql and the go-sql-driver/mysql driver.
//
// It mirrors the postgresengine contract with the MySQL-specific differences
// kept local: store-assigned ids come from LAST_INSERT_ID instead of a
// RETURNING clause, and the title prefix search uses LIKE BINARY so matching
// stays case-sensitive regardless of the table collation.
package mysqlengine
