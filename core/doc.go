// Package core contains the domain records of the library:
// Book and Person, their field validation rules, and the loan
// overdue policy.
//
// Everything in this package is pure: no storage, no transport,
// no clocks other than the ones passed in explicitly.
package core
