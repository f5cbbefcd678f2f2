package config

import "os"

// MySQLTestDSN returns the DSN for the test database. parseTime and
// clientFoundRows stay enabled for the same reasons as in the server
// configuration.
func MySQLTestDSN() string {
	if dsn := os.Getenv("LIBRIS_TEST_MYSQL_DSN"); dsn != "" {
		return dsn
	}

	return "test:test@tcp(localhost:3306)/libris?parseTime=true&clientFoundRows=true"
}
