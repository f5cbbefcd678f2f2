package mysqltesthelpers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libris-project/libris/storage/mysqlengine"
	"github.com/libris-project/libris/testutil/mysqlengine/config"
)

// The driver executes one statement per call, so the DDL is kept as
// separate statements.
var createSchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS person (
		id            BIGINT AUTO_INCREMENT PRIMARY KEY,
		full_name     VARCHAR(100) NOT NULL UNIQUE,
		year_of_birth INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS book (
		id        BIGINT AUTO_INCREMENT PRIMARY KEY,
		title     VARCHAR(255) NOT NULL,
		author    VARCHAR(255) NOT NULL,
		year      INT NOT NULL,
		person_id BIGINT NULL,
		lent_at   DATETIME(6) NULL,
		INDEX idx_book_person_id (person_id)
	)`,
}

var cleanUpStatements = []string{
	`DELETE FROM book`,
	`DELETE FROM person`,
}

// Wrapper bundles the gateway with the connection it was built on.
type Wrapper struct {
	db *sql.DB
	gw *mysqlengine.Gateway
}

// GetGateway returns the gateway under test.
func (w *Wrapper) GetGateway() *mysqlengine.Gateway {
	return w.gw
}

// Exec runs a statement on the underlying connection.
func (w *Wrapper) Exec(t testing.TB, statement string) {
	_, err := w.db.ExecContext(context.Background(), statement)
	assert.NoError(t, err, "error executing statement in test setup")
}

// Close closes the underlying connection.
func (w *Wrapper) Close() {
	_ = w.db.Close() // ignore error
}

// CreateWrapperWithTestConfig creates a wrapper around a gateway on the test database.
func CreateWrapperWithTestConfig(t testing.TB, options ...mysqlengine.Option) *Wrapper {
	db := config.MySQLSQLDBTestConfig()

	gw, err := mysqlengine.NewGatewayFromSQLDB(db, options...)
	assert.NoError(t, err, "error creating gateway")

	return &Wrapper{db: db, gw: gw}
}

// EnsureSchema creates the book and person tables if they do not exist yet.
func EnsureSchema(t testing.TB, wrapper *Wrapper) {
	for _, statement := range createSchemaStatements {
		wrapper.Exec(t, statement)
	}
}

// CleanUp empties both tables so every test starts from an empty database.
func CleanUp(t testing.TB, wrapper *Wrapper) {
	for _, statement := range cleanUpStatements {
		wrapper.Exec(t, statement)
	}
}
