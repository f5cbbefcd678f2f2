package storage

import (
	"context"
	"time"

	"github.com/libris-project/libris/core"
)

// SortKey selects the ascending sort order of a listing.
type SortKey string

const (
	// SortNone leaves the order implementation-defined; callers that need a
	// stable order pass an explicit key.
	SortNone SortKey = ""

	// SortTitle orders books by title.
	SortTitle SortKey = "title"

	// SortYear orders books by publication year.
	SortYear SortKey = "year"

	// SortFullName orders persons by full name.
	SortFullName SortKey = "full_name"
)

// BookGateway abstracts CRUD and query operations over Book records.
//
// All operations are synchronous and atomic at single-record granularity.
// AssignOwner and ReleaseOwner update the owner and the loan-start timestamp
// in one statement, both-or-neither. Write operations on an absent id are
// silent no-ops, with the exception of AssignOwner which reports whether the
// book existed so the catalog can surface the condition.
type BookGateway interface {
	// ListAll returns every book, sorted ascending by the given key.
	ListAll(ctx context.Context, sort SortKey) ([]core.Book, error)

	// ListPage returns at most limit books starting at offset, sorted
	// ascending by the given key. An offset beyond the end yields an empty
	// slice, not an error. Returns ErrInvalidPageBounds when limit <= 0 or
	// offset < 0.
	ListPage(ctx context.Context, offset, limit int, sort SortKey) ([]core.Book, error)

	// GetByID returns the book with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (core.Book, error)

	// Insert creates the record and returns the store-assigned id. The
	// owner and loan-start fields of the argument are ignored: a new book
	// always enters the catalog available.
	Insert(ctx context.Context, book core.Book) (int64, error)

	// Update replaces title, author and year of the record with the given
	// id. Owner and loan-start are never touched, so an existing loan
	// survives an edit. No-op when the id is absent.
	Update(ctx context.Context, id int64, book core.Book) error

	// DeleteByID removes the record if present, no-op otherwise.
	DeleteByID(ctx context.Context, id int64) error

	// FindByTitlePrefix returns all books whose title starts with the given
	// prefix, exact case. An empty prefix matches nothing.
	FindByTitlePrefix(ctx context.Context, prefix string) ([]core.Book, error)

	// FindByOwner returns all books currently held by the given person.
	FindByOwner(ctx context.Context, personID int64) ([]core.Book, error)

	// AssignOwner sets the owner and the loan-start timestamp together.
	// Reports whether a book with the given id existed.
	AssignOwner(ctx context.Context, bookID, personID int64, lentAt time.Time) (bool, error)

	// ReleaseOwner clears the owner and the loan-start timestamp together.
	// No-op when the book is absent or already available.
	ReleaseOwner(ctx context.Context, bookID int64) error

	// ReleaseAllByOwner clears the owner and the loan-start timestamp of
	// every book held by the given person.
	ReleaseAllByOwner(ctx context.Context, personID int64) error
}

// PersonGateway abstracts CRUD and query operations over Person records.
type PersonGateway interface {
	// ListAll returns every person, sorted ascending by the given key.
	ListAll(ctx context.Context, sort SortKey) ([]core.Person, error)

	// GetByID returns the person with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (core.Person, error)

	// Insert creates the record and returns the store-assigned id.
	Insert(ctx context.Context, person core.Person) (int64, error)

	// Update fully replaces the record with the given id. No-op when the id
	// is absent.
	Update(ctx context.Context, id int64, person core.Person) error

	// DeleteByID removes the record if present, no-op otherwise. Releasing
	// the books the person holds is the directory service's concern and must
	// happen before this call.
	DeleteByID(ctx context.Context, id int64) error

	// FindByFullName returns the person with exactly the given full name
	// (case-sensitive), or ErrNotFound. Used for the uniqueness check.
	FindByFullName(ctx context.Context, fullName string) (core.Person, error)
}
