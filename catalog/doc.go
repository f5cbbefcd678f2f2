// Package catalog implements the book catalog service: book lifecycle,
// listing with sorting and pagination, title prefix search, and the loan
// state machine that assigns books to persons and releases them.
package catalog
