package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/libris-project/libris/storage"
	"github.com/libris-project/libris/storage/postgresengine/internal/adapters"
)

const (
	defaultBookTableName   = "book"
	defaultPersonTableName = "person"

	dialectPostgres = "postgres"

	colID          = "id"
	colTitle       = "title"
	colAuthor      = "author"
	colYear        = "year"
	colPersonID    = "person_id"
	colLentAt      = "lent_at"
	colFullName    = "full_name"
	colYearOfBirth = "year_of_birth"

	logMsgBuildQueryFailed   = "failed to build sql statement"
	logMsgDBQueryFailed      = "database query execution failed"
	logMsgDBExecFailed       = "database statement execution failed"
	logMsgCloseRowsFailed    = "failed to close database rows"
	logMsgScanRowFailed      = "failed to scan database row"
	logMsgRowsAffectedFailed = "failed to get rows affected count"
	logMsgSQLExecuted        = "executed sql for: "
	logMsgOperation          = "storage operation: "

	logAttrError       = "error"
	logAttrQuery       = "query"
	logAttrRecordCount = "record_count"
	logAttrDurationMS  = "duration_ms"

	errorTypeBuildQuery   = "build_query"
	errorTypeQuery        = "query"
	errorTypeExec         = "exec"
	errorTypeScan         = "scan"
	errorTypeRowsAffected = "rows_affected"
)

type sqlQueryString = string

// Gateway is the PostgreSQL implementation behind the storage gateway
// contract. It holds the shared database adapter and configuration; the
// entity-facing interfaces are obtained via Books and People.
type Gateway struct {
	db               adapters.DBAdapter
	bookTable        string
	personTable      string
	logger           storage.Logger
	contextualLogger storage.ContextualLogger
	metricsCollector storage.MetricsCollector
}

// NewGatewayFromPGXPool creates a new Gateway using a pgx pool with optional configuration.
func NewGatewayFromPGXPool(db *pgxpool.Pool, options ...Option) (*Gateway, error) {
	if db == nil {
		return nil, storage.ErrNilDatabaseConnection
	}

	return newGateway(adapters.NewPGXAdapter(db), options...)
}

// NewGatewayFromSQLDB creates a new Gateway using a sql.DB with optional configuration.
func NewGatewayFromSQLDB(db *sql.DB, options ...Option) (*Gateway, error) {
	if db == nil {
		return nil, storage.ErrNilDatabaseConnection
	}

	return newGateway(adapters.NewSQLAdapter(db), options...)
}

// NewGatewayFromSQLX creates a new Gateway using a sqlx.DB with optional configuration.
func NewGatewayFromSQLX(db *sqlx.DB, options ...Option) (*Gateway, error) {
	if db == nil {
		return nil, storage.ErrNilDatabaseConnection
	}

	return newGateway(adapters.NewSQLXAdapter(db), options...)
}

func newGateway(db adapters.DBAdapter, options ...Option) (*Gateway, error) {
	g := &Gateway{
		db:          db,
		bookTable:   defaultBookTableName,
		personTable: defaultPersonTableName,
	}

	for _, option := range options {
		if err := option(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Books returns the book-facing side of the gateway.
func (g *Gateway) Books() storage.BookGateway {
	return bookGateway{g}
}

// People returns the person-facing side of the gateway.
func (g *Gateway) People() storage.PersonGateway {
	return personGateway{g}
}

// executeQuery executes a read statement with timing, logging and metrics.
func (g *Gateway) executeQuery(ctx context.Context, sqlQuery sqlQueryString, operation string) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := g.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	g.logStatementWithDuration(ctx, sqlQuery, operation, duration)

	if queryErr != nil {
		g.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		g.recordErrorMetrics(ctx, operation, errorTypeQuery)

		return nil, errors.Join(storage.ErrQueryFailed, queryErr)
	}

	g.recordDurationMetrics(ctx, operation, "success", duration)

	return rows, nil
}

// executeStatement executes a write statement and returns the affected row count.
func (g *Gateway) executeStatement(ctx context.Context, sqlQuery sqlQueryString, operation string) (int64, error) {
	start := time.Now()
	result, execErr := g.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	g.logStatementWithDuration(ctx, sqlQuery, operation, duration)

	if execErr != nil {
		g.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		g.recordErrorMetrics(ctx, operation, errorTypeExec)

		return 0, errors.Join(storage.ErrExecFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		g.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		g.recordErrorMetrics(ctx, operation, errorTypeRowsAffected)

		return 0, errors.Join(storage.ErrRowsAffectedFailed, rowsAffectedErr)
	}

	g.recordDurationMetrics(ctx, operation, "success", duration)

	return rowsAffected, nil
}

// closeRows safely closes database rows and logs any errors.
func (g *Gateway) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		g.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

// buildQueryFailed logs and wraps a statement-building failure.
func (g *Gateway) buildQueryFailed(ctx context.Context, operation string, err error) error {
	g.logError(ctx, logMsgBuildQueryFailed, err)
	g.recordErrorMetrics(ctx, operation, errorTypeBuildQuery)

	return errors.Join(storage.ErrBuildingQueryFailed, err)
}

// escapeLikePrefix escapes the SQL LIKE wildcards in a user-supplied prefix
// so the prefix is matched literally.
func escapeLikePrefix(prefix string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(prefix)
}
