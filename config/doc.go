// Package config provides environment-driven configuration for the server
// binary: database DSNs and connection pool tuning.
package config
