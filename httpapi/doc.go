// Package httpapi is the JSON presentation layer: it translates HTTP
// requests into catalog and directory service calls and renders the results.
//
// It carries no business logic. Validation failures surface as 422 responses
// with the offending field and message, absent records as 404, and storage
// failures as 500.
package httpapi
