package config

import (
	"database/sql"
	"os"
	"time"
)

const defaultMySQLDSN = "libris:libris@tcp(localhost:3306)/libris?parseTime=true&clientFoundRows=true"

// MySQLDSN returns the MySQL connection string, taken from LIBRIS_MYSQL_DSN
// or falling back to a local development default. parseTime must stay
// enabled so loan timestamps scan into time.Time, and clientFoundRows so
// UPDATE results report matched rows rather than changed rows - the
// gateway's existence checks depend on it.
func MySQLDSN() string {
	if dsn := os.Getenv("LIBRIS_MYSQL_DSN"); dsn != "" {
		return dsn
	}

	return defaultMySQLDSN
}

// TuneSQLDB applies the connection pool tuning the server uses to a sql.DB.
func TuneSQLDB(db *sql.DB) {
	const defaultMaxOpenConnections = 8
	const defaultMaxIdleConnections = 2
	const defaultConnMaxLifetime = time.Hour

	db.SetMaxOpenConns(defaultMaxOpenConnections)
	db.SetMaxIdleConns(defaultMaxIdleConnections)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
}
