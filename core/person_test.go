package core_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libris-project/libris/core"
)

func Test_ValidatePerson_When_AllFieldsAreValid(t *testing.T) {
	validNames := []string{
		"John Doe",
		"Anne-Marie O'Brien",
		"José García",
		"李小龙",
		"Al",
	}

	for _, name := range validNames {
		// arrange
		person := core.Person{FullName: name, YearOfBirth: 1984}

		// act
		err := core.ValidatePerson(person)

		// assert
		assert.NoError(t, err, "expected %q to be a valid full name", name)
	}
}

func Test_ValidatePerson_When_FullNameIsEmpty(t *testing.T) {
	// arrange
	person := core.Person{FullName: "", YearOfBirth: 1984}

	// act
	err := core.ValidatePerson(person)

	// assert
	assertValidationErrorForField(t, err, "fullName")
}

func Test_ValidatePerson_When_FullNameIsTooShort(t *testing.T) {
	// arrange
	person := core.Person{FullName: "J", YearOfBirth: 1984}

	// act
	err := core.ValidatePerson(person)

	// assert
	assertValidationErrorForField(t, err, "fullName")
}

func Test_ValidatePerson_When_FullNameIsTooLong(t *testing.T) {
	// arrange
	person := core.Person{FullName: strings.Repeat("a", 101), YearOfBirth: 1984}

	// act
	err := core.ValidatePerson(person)

	// assert
	assertValidationErrorForField(t, err, "fullName")
}

func Test_ValidatePerson_When_FullNameContainsForbiddenCharacters(t *testing.T) {
	invalidNames := []string{
		"John3 Doe",
		"John_Doe",
		"John  Doe",
		"-John",
		"John-",
		" John",
	}

	for _, name := range invalidNames {
		// arrange
		person := core.Person{FullName: name, YearOfBirth: 1984}

		// act
		err := core.ValidatePerson(person)

		// assert
		assertValidationErrorForField(t, err, "fullName")
	}
}

func Test_ValidatePerson_When_YearOfBirthIsTooEarly(t *testing.T) {
	// arrange
	person := core.Person{FullName: "John Doe", YearOfBirth: 1899}

	// act
	err := core.ValidatePerson(person)

	// assert
	assertValidationErrorForField(t, err, "yearOfBirth")
}

func Test_ValidatePerson_When_YearOfBirthIsAtTheLowerBound(t *testing.T) {
	// arrange
	person := core.Person{FullName: "John Doe", YearOfBirth: 1900}

	// act
	err := core.ValidatePerson(person)

	// assert
	assert.NoError(t, err)
}

func Test_ValidateBook_When_AllFieldsAreValid(t *testing.T) {
	// arrange
	book := core.Book{Title: "The Go Programming Language", Author: "Donovan", Year: 2015}

	// act
	err := core.ValidateBook(book)

	// assert
	assert.NoError(t, err)
}

func Test_ValidateBook_When_TitleIsEmpty(t *testing.T) {
	// arrange
	book := core.Book{Title: "", Author: "Donovan", Year: 2015}

	// act
	err := core.ValidateBook(book)

	// assert
	assertValidationErrorForField(t, err, "title")
}

func Test_Book_IsLent(t *testing.T) {
	// arrange
	ownerID := int64(7)
	available := core.Book{Title: "Dune"}
	lent := core.Book{Title: "Dune", OwnerID: &ownerID}

	// assert
	assert.False(t, available.IsLent())
	assert.True(t, lent.IsLent())
}

func assertValidationErrorForField(t *testing.T, err error, field string) {
	t.Helper()

	var validationErr core.ValidationError
	assert.Error(t, err)
	assert.True(t, errors.As(err, &validationErr), "expected a validation error, got %v", err)
	assert.Equal(t, field, validationErr.Field)
}
