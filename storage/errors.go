package storage

import (
	"errors"
)

var (
	// ErrNotFound is returned by single-record lookups when no record matches.
	// Services translate it to an absent result on read paths.
	ErrNotFound = errors.New("record not found")

	// ErrNilDatabaseConnection is returned by engine constructors when the
	// supplied connection handle is nil.
	ErrNilDatabaseConnection = errors.New("nil database connection supplied")

	// ErrEmptyTableName is returned when a table name option is empty.
	ErrEmptyTableName = errors.New("empty table name supplied")

	// ErrInvalidPageBounds is returned when a page query is requested with a
	// non-positive limit or a negative offset.
	ErrInvalidPageBounds = errors.New("page limit must be positive and offset must not be negative")

	// ErrBuildingQueryFailed wraps failures while building a SQL statement.
	ErrBuildingQueryFailed = errors.New("building sql query failed")

	// ErrQueryFailed wraps failures while executing a read statement.
	ErrQueryFailed = errors.New("executing sql query failed")

	// ErrExecFailed wraps failures while executing a write statement.
	ErrExecFailed = errors.New("executing sql statement failed")

	// ErrScanningRowFailed wraps failures while decoding a database row.
	ErrScanningRowFailed = errors.New("scanning database row failed")

	// ErrRowsAffectedFailed wraps failures while reading the affected row count.
	ErrRowsAffectedFailed = errors.New("getting rows affected count failed")
)
