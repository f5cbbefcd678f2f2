// Package testdoubles provides test doubles (spies) for the observability
// interfaces of the storage package. The spies capture logging calls for
// verification without requiring an actual logging backend.
package testdoubles
