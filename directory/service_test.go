package directory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/libris-project/libris/catalog"
	"github.com/libris-project/libris/core"
	"github.com/libris-project/libris/directory"
	"github.com/libris-project/libris/testutil/memgateway"
)

func Test_Create_Then_Get_ReturnsThePerson(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memgateway.NewStore()
	service := directory.NewService(store.People(), store.Books())

	// act
	id, err := service.Create(ctx, core.Person{FullName: "John Doe", YearOfBirth: 1984})

	// assert
	assert.NoError(t, err)

	person, err := service.Get(ctx, id)
	assert.NoError(t, err)
	assert.NotNil(t, person)
	assert.Equal(t, "John Doe", person.FullName)
	assert.Equal(t, 1984, person.YearOfBirth)
}

func Test_Get_When_ThePersonDoesNotExist(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memgateway.NewStore()
	service := directory.NewService(store.People(), store.Books())

	// act
	person, err := service.Get(ctx, 42)

	// assert
	assert.NoError(t, err)
	assert.Nil(t, person)
}

func Test_List_Orders_ByFullName(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memgateway.NewStore()
	service := directory.NewService(store.People(), store.Books())
	givenDirectoryPerson(t, ctx, service, "Mary Major", 1970)
	givenDirectoryPerson(t, ctx, service, "Alan Minor", 1980)

	// act
	persons, err := service.List(ctx)

	// assert
	assert.NoError(t, err)
	assert.Len(t, persons, 2)
	assert.Equal(t, "Alan Minor", persons[0].FullName)
	assert.Equal(t, "Mary Major", persons[1].FullName)
}

func Test_Create_When_TheFullNameIsAlreadyTaken(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memgateway.NewStore()
	service := directory.NewService(store.People(), store.Books())
	givenDirectoryPerson(t, ctx, service, "John Doe", 1984)

	// act
	_, err := service.Create(ctx, core.Person{FullName: "John Doe", YearOfBirth: 1990})

	// assert
	var validationErr core.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "fullName", validationErr.Field)
}

func Test_Create_When_TheFullNameIsDistinct(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memgateway.NewStore()
	service := directory.NewService(store.People(), store.Books())
	givenDirectoryPerson(t, ctx, service, "John Doe", 1984)

	// act
	_, err := service.Create(ctx, core.Person{FullName: "Jane Roe", YearOfBirth: 1990})

	// assert
	assert.NoError(t, err)
}

func Test_Create_When_ThePersonIsInvalid(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memgateway.NewStore()
	service := directory.NewService(store.People(), store.Books())

	// act
	_, err := service.Create(ctx, core.Person{FullName: "John Doe", YearOfBirth: 1850})

	// assert
	var validationErr core.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "yearOfBirth", validationErr.Field)
}

func Test_Update_DoesNotCollide_WithItself(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memgateway.NewStore()
	service := directory.NewService(store.People(), store.Books())
	id := givenDirectoryPerson(t, ctx, service, "John Doe", 1984)

	// act
	err := service.Update(ctx, id, core.Person{FullName: "John Doe", YearOfBirth: 1985})

	// assert
	assert.NoError(t, err, "keeping the own name on update is not a duplicate")

	person, getErr := service.Get(ctx, id)
	assert.NoError(t, getErr)
	assert.Equal(t, 1985, person.YearOfBirth)
}

func Test_Update_When_TheNewFullNameBelongsToSomeoneElse(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memgateway.NewStore()
	service := directory.NewService(store.People(), store.Books())
	givenDirectoryPerson(t, ctx, service, "John Doe", 1984)
	id := givenDirectoryPerson(t, ctx, service, "Jane Roe", 1990)

	// act
	err := service.Update(ctx, id, core.Person{FullName: "John Doe", YearOfBirth: 1990})

	// assert
	var validationErr core.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "fullName", validationErr.Field)
}

func Test_Delete_Releases_TheBooksThePersonHolds(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memgateway.NewStore()
	service := directory.NewService(store.People(), store.Books())
	books := catalog.NewService(store.Books(), store.People())
	personID := givenDirectoryPerson(t, ctx, service, "John Doe", 1984)
	bookID, err := books.Create(ctx, core.Book{Title: "Dune", Author: "Herbert", Year: 1965})
	assert.NoError(t, err)
	assert.NoError(t, books.Assign(ctx, bookID, personID))

	// act
	err = service.Delete(ctx, personID)

	// assert
	assert.NoError(t, err)

	person, getErr := service.Get(ctx, personID)
	assert.NoError(t, getErr)
	assert.Nil(t, person)

	book, getErr := books.Get(ctx, bookID)
	assert.NoError(t, getErr)
	assert.NotNil(t, book, "the book survives its holder")
	assert.Nil(t, book.OwnerID, "deleting a person releases the held books")
	assert.Nil(t, book.LentAt)
}

func Test_BooksHeld_Annotates_OverdueLoans(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memgateway.NewStore()
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	clock := now.Add(-12 * 24 * time.Hour) // loans start twelve days in the past
	service := directory.NewService(store.People(), store.Books(),
		directory.WithClock(func() time.Time { return now }))
	books := catalog.NewService(store.Books(), store.People(),
		catalog.WithClock(func() time.Time { return clock }))

	personID := givenDirectoryPerson(t, ctx, service, "John Doe", 1984)
	overdueBookID, err := books.Create(ctx, core.Book{Title: "Dune", Author: "Herbert", Year: 1965})
	assert.NoError(t, err)
	onTimeBookID, err := books.Create(ctx, core.Book{Title: "Neuromancer", Author: "Gibson", Year: 1984})
	assert.NoError(t, err)

	assert.NoError(t, books.Assign(ctx, overdueBookID, personID))
	clock = now.Add(-2 * 24 * time.Hour) // second loan starts two days in the past
	assert.NoError(t, books.Assign(ctx, onTimeBookID, personID))

	// act
	held, err := service.BooksHeld(ctx, personID)

	// assert
	assert.NoError(t, err)
	assert.Len(t, held, 2)

	overdueByTitle := make(map[string]bool, len(held))
	for _, book := range held {
		overdueByTitle[book.Title] = book.Overdue
	}
	assert.True(t, overdueByTitle["Dune"])
	assert.False(t, overdueByTitle["Neuromancer"])
}

func Test_BooksHeld_When_ThePersonHoldsNothing(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memgateway.NewStore()
	service := directory.NewService(store.People(), store.Books())
	personID := givenDirectoryPerson(t, ctx, service, "John Doe", 1984)

	// act
	held, err := service.BooksHeld(ctx, personID)

	// assert
	assert.NoError(t, err)
	assert.Empty(t, held)
}

func Test_BooksHeld_When_ThePersonDoesNotExist(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memgateway.NewStore()
	service := directory.NewService(store.People(), store.Books())

	// act
	held, err := service.BooksHeld(ctx, 42)

	// assert
	assert.NoError(t, err)
	assert.Empty(t, held, "an unknown holder yields an empty result, not an error")
}

func givenDirectoryPerson(t *testing.T, ctx context.Context, service *directory.Service, fullName string, yearOfBirth int) int64 {
	t.Helper()

	id, err := service.Create(ctx, core.Person{FullName: fullName, YearOfBirth: yearOfBirth})
	assert.NoError(t, err, "error creating person in test setup")

	return id
}
