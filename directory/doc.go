// Package directory implements the person directory service: person
// lifecycle, the uniqueness-by-name rule, and the "books held by person"
// query with overdue annotation.
package directory
