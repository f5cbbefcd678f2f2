// Package config provides the database configuration for MySQL gateway
// tests. The DSN can be overridden via the LIBRIS_TEST_MYSQL_DSN environment
// variable; the default targets the local docker-compose test database.
package config
