package core

import (
	"time"
)

// Book represents a catalog entry. A Book is either available
// (OwnerID and LentAt absent) or on loan (both present) - the two
// are always set and cleared together.
//
// Overdue is derived at read time by the loan overdue policy and is
// never persisted. It is only populated on "books held by a person"
// queries, not on plain catalog listings.
type Book struct {
	ID      int64      `json:"id"`
	Title   string     `json:"title"`
	Author  string     `json:"author"`
	Year    int        `json:"year"`
	OwnerID *int64     `json:"ownerId,omitempty"`
	LentAt  *time.Time `json:"lentAt,omitempty"`
	Overdue bool       `json:"overdue"`
}

// IsLent reports whether the book is currently on loan.
func (b Book) IsLent() bool {
	return b.OwnerID != nil
}

// ValidateBook checks the static field constraints of a Book.
// Returns a ValidationError naming the offending field, or nil.
func ValidateBook(b Book) error {
	if b.Title == "" {
		return ValidationError{Field: "title", Message: "title must not be empty"}
	}

	return nil
}
