package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/libris-project/libris/core"
	"github.com/libris-project/libris/storage"
)

// ErrBookNotFound is returned by Assign when the book does not exist. It is a
// warning-level condition, not a fatal one: the caller pre-filters the books
// it offers for assignment, so hitting it means the catalog changed underneath.
var ErrBookNotFound = errors.New("book not found in catalog")

const (
	logMsgAssignMissingBook = "assign requested for missing book"
	logAttrBookID           = "book_id"
	logAttrPersonID         = "person_id"
)

// Service owns the book side of the library: lifecycle, listings, search and
// the loan state machine. A book is either available (no owner) or loaned
// (owner and loan start set); Assign and Release move it between the two.
type Service struct {
	books  storage.BookGateway
	people storage.PersonGateway
	logger storage.Logger
	now    func() time.Time
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithLogger sets the logger used for warning-level conditions.
func WithLogger(logger storage.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock sets the time source used for loan-start timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new catalog Service with optional configuration.
func NewService(books storage.BookGateway, people storage.PersonGateway, options ...Option) *Service {
	s := &Service{
		books:  books,
		people: people,
		now:    time.Now,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// List returns all books. Without an explicit sort key the listing is
// ordered by title.
func (s *Service) List(ctx context.Context, sort storage.SortKey) ([]core.Book, error) {
	return s.books.ListAll(ctx, defaultBookSort(sort))
}

// ListPage returns the 0-indexed page of the catalog with pageSize books per
// page. A page beyond the end of the catalog yields an empty slice, never an
// error. Without an explicit sort key the listing is ordered by title.
func (s *Service) ListPage(ctx context.Context, page, pageSize int, sort storage.SortKey) ([]core.Book, error) {
	if page < 0 || pageSize <= 0 {
		return nil, storage.ErrInvalidPageBounds
	}

	return s.books.ListPage(ctx, page*pageSize, pageSize, defaultBookSort(sort))
}

// Get returns the book with the given id, or nil when it does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*core.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &book, nil
}

// Create validates the book and adds it to the catalog, returning the
// store-assigned id. New books always enter the catalog available.
func (s *Service) Create(ctx context.Context, book core.Book) (int64, error) {
	if err := core.ValidateBook(book); err != nil {
		return 0, err
	}

	return s.books.Insert(ctx, book)
}

// Update validates and replaces title, author and year of the book with the
// given id. An existing loan is preserved. No-op when the id is absent.
func (s *Service) Update(ctx context.Context, id int64, book core.Book) error {
	if err := core.ValidateBook(book); err != nil {
		return err
	}

	return s.books.Update(ctx, id, book)
}

// Delete removes the book from the catalog. No-op when the id is absent.
// A held book simply disappears from its holder's view; directory queries
// keep working because the loan lives on the book record itself.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.books.DeleteByID(ctx, id)
}

// Search returns all books whose title starts with the given prefix, exact
// case, ordered by title. An empty prefix returns an empty result, not the
// whole catalog.
func (s *Service) Search(ctx context.Context, titlePrefix string) ([]core.Book, error) {
	if titlePrefix == "" {
		return []core.Book{}, nil
	}

	return s.books.FindByTitlePrefix(ctx, titlePrefix)
}

// Assign moves the book into the loaned state: the owner is set to the given
// person and the loan start to the current time, together. Assigning an
// already loaned book overwrites the owner and resets the loan start - last
// assignment wins, no "already loaned" error is raised.
// Returns ErrBookNotFound when the book does not exist.
func (s *Service) Assign(ctx context.Context, bookID, personID int64) error {
	found, err := s.books.AssignOwner(ctx, bookID, personID, s.now())
	if err != nil {
		return err
	}

	if !found {
		if s.logger != nil {
			s.logger.Warn(logMsgAssignMissingBook, logAttrBookID, bookID, logAttrPersonID, personID)
		}

		return ErrBookNotFound
	}

	return nil
}

// Release moves the book back into the available state, clearing owner and
// loan start together. No-op when the book is already available or absent.
func (s *Service) Release(ctx context.Context, bookID int64) error {
	return s.books.ReleaseOwner(ctx, bookID)
}

// Owner returns the person currently holding the book, or nil when the book
// has no owner or does not exist. Callers that need to distinguish the two
// cases do a separate Get.
func (s *Service) Owner(ctx context.Context, bookID int64) (*core.Person, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if book.OwnerID == nil {
		return nil, nil
	}

	person, err := s.people.GetByID(ctx, *book.OwnerID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &person, nil
}

func defaultBookSort(sort storage.SortKey) storage.SortKey {
	if sort == storage.SortNone {
		return storage.SortTitle
	}

	return sort
}
