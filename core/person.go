package core

import (
	"regexp"
	"unicode/utf8"
)

const (
	minFullNameLength = 2
	maxFullNameLength = 100
	minYearOfBirth    = 1900
)

// fullNamePattern accepts names made of letters in any script, with single
// hyphens, apostrophes or spaces between the parts.
var fullNamePattern = regexp.MustCompile(`^\p{L}+(?:[-' ]\p{L}+)*$`)

// Person represents a registered library member who can hold books.
type Person struct {
	ID          int64  `json:"id"`
	FullName    string `json:"fullName"`
	YearOfBirth int    `json:"yearOfBirth"`
}

// ValidatePerson checks the static field constraints of a Person.
// Uniqueness of the full name is a cross-record rule and is enforced
// by the directory service, not here.
// Returns a ValidationError naming the offending field, or nil.
func ValidatePerson(p Person) error {
	if p.FullName == "" {
		return ValidationError{Field: "fullName", Message: "full name must not be empty"}
	}

	if length := utf8.RuneCountInString(p.FullName); length < minFullNameLength || length > maxFullNameLength {
		return ValidationError{Field: "fullName", Message: "full name must be between 2 and 100 characters long"}
	}

	if !fullNamePattern.MatchString(p.FullName) {
		return ValidationError{Field: "fullName", Message: "full name may only contain letters, hyphens, apostrophes and spaces"}
	}

	if p.YearOfBirth < minYearOfBirth {
		return ValidationError{Field: "yearOfBirth", Message: "year of birth must be 1900 or later"}
	}

	return nil
}
