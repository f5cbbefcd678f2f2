package pgtesthelpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/libris-project/libris/storage/postgresengine"
	"github.com/libris-project/libris/testutil/postgresengine/config"
)

// Adapter type constants
const (
	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"
)

const createSchemaDDL = `
CREATE TABLE IF NOT EXISTS person (
	id            BIGSERIAL PRIMARY KEY,
	full_name     TEXT NOT NULL UNIQUE,
	year_of_birth INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS book (
	id        BIGSERIAL PRIMARY KEY,
	title     TEXT NOT NULL,
	author    TEXT NOT NULL,
	year      INTEGER NOT NULL,
	person_id BIGINT REFERENCES person (id),
	lent_at   TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_book_person_id ON book (person_id);
`

const truncateTablesStmt = `TRUNCATE TABLE book, person RESTART IDENTITY`

// Wrapper abstracts over the different database adapter types.
type Wrapper interface {
	GetGateway() *postgresengine.Gateway
	Exec(t testing.TB, statement string)
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing
type PGXPoolWrapper struct {
	pool *pgxpool.Pool
	gw   *postgresengine.Gateway
}

func (w *PGXPoolWrapper) GetGateway() *postgresengine.Gateway {
	return w.gw
}

func (w *PGXPoolWrapper) Exec(t testing.TB, statement string) {
	_, err := w.pool.Exec(context.Background(), statement)
	assert.NoError(t, err, "error executing statement in test setup")
}

func (w *PGXPoolWrapper) Close() {
	w.pool.Close()
}

// SQLDBWrapper wraps sql.DB-based testing
type SQLDBWrapper struct {
	db *sql.DB
	gw *postgresengine.Gateway
}

func (w *SQLDBWrapper) GetGateway() *postgresengine.Gateway {
	return w.gw
}

func (w *SQLDBWrapper) Exec(t testing.TB, statement string) {
	_, err := w.db.ExecContext(context.Background(), statement)
	assert.NoError(t, err, "error executing statement in test setup")
}

func (w *SQLDBWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing
type SQLXWrapper struct {
	db *sqlx.DB
	gw *postgresengine.Gateway
}

func (w *SQLXWrapper) GetGateway() *postgresengine.Gateway {
	return w.gw
}

func (w *SQLXWrapper) Exec(t testing.TB, statement string) {
	_, err := w.db.ExecContext(context.Background(), statement)
	assert.NoError(t, err, "error executing statement in test setup")
}

func (w *SQLXWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// CreateWrapperWithTestConfig creates the appropriate wrapper based on the ADAPTER_TYPE environment variable.
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresengine.Option) Wrapper {
	adapterTypeFromEnv := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	switch adapterTypeFromEnv {
	case typePGXPool, "":
		connPool, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolTestConfig())
		assert.NoError(t, err, "error connecting to DB pool in test setup")

		gw, err := postgresengine.NewGatewayFromPGXPool(connPool, options...)
		assert.NoError(t, err, "error creating gateway")

		return &PGXPoolWrapper{pool: connPool, gw: gw}

	case typeSQLDB:
		db := config.PostgresSQLDBTestConfig()

		gw, err := postgresengine.NewGatewayFromSQLDB(db, options...)
		assert.NoError(t, err, "error creating gateway")

		return &SQLDBWrapper{db: db, gw: gw}

	case typeSQLXDB:
		db := config.PostgresSQLXTestConfig()

		gw, err := postgresengine.NewGatewayFromSQLX(db, options...)
		assert.NoError(t, err, "error creating gateway")

		return &SQLXWrapper{db: db, gw: gw}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported adapter type from env: %s", adapterTypeFromEnv))
	}
}

// EnsureSchema creates the book and person tables if they do not exist yet.
func EnsureSchema(t testing.TB, wrapper Wrapper) {
	wrapper.Exec(t, createSchemaDDL)
}

// CleanUp truncates both tables so every test starts from an empty database.
func CleanUp(t testing.TB, wrapper Wrapper) {
	wrapper.Exec(t, truncateTablesStmt)
}
