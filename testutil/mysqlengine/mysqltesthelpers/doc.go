// Package mysqltesthelpers provides test utilities for MySQL gateway
// testing, mirroring the PostgreSQL helpers.
//
// Utility Functions:
//
//	CreateWrapperWithTestConfig: creates the wrapper around a sql.DB gateway
//	EnsureSchema: creates the book and person tables if they do not exist
//	CleanUp: empties both tables for test isolation
package mysqltesthelpers
