package directory

import (
	"context"
	"errors"
	"time"

	"github.com/libris-project/libris/core"
	"github.com/libris-project/libris/storage"
)

const duplicateFullNameMessage = "a person with this full name already exists"

// Service owns the person side of the library: lifecycle, the one
// cross-record business rule (full names are unique, case-sensitive), and
// the view of the books a person currently holds.
//
// The uniqueness check runs on every write, create and update alike, so the
// rule holds regardless of which path touched the record.
type Service struct {
	people storage.PersonGateway
	books  storage.BookGateway
	now    func() time.Time
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithClock sets the time source used for overdue computation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new directory Service with optional configuration.
func NewService(people storage.PersonGateway, books storage.BookGateway, options ...Option) *Service {
	s := &Service{
		people: people,
		books:  books,
		now:    time.Now,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// List returns all persons ordered by full name.
func (s *Service) List(ctx context.Context) ([]core.Person, error) {
	return s.people.ListAll(ctx, storage.SortFullName)
}

// Get returns the person with the given id, or nil when it does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*core.Person, error) {
	person, err := s.people.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &person, nil
}

// Create validates the person, enforces the uniqueness-by-name rule and adds
// the record, returning the store-assigned id.
func (s *Service) Create(ctx context.Context, person core.Person) (int64, error) {
	if err := s.validate(ctx, person, 0); err != nil {
		return 0, err
	}

	return s.people.Insert(ctx, person)
}

// Update validates the person, re-runs the uniqueness check (ignoring the
// record being updated itself) and fully replaces the record. No-op when the
// id is absent.
func (s *Service) Update(ctx context.Context, id int64, person core.Person) error {
	if err := s.validate(ctx, person, id); err != nil {
		return err
	}

	return s.people.Update(ctx, id, person)
}

// Delete removes the person. Any books the person holds are released first,
// so the catalog never carries an owner reference to a nonexistent person.
// No-op when the id is absent.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.books.ReleaseAllByOwner(ctx, id); err != nil {
		return err
	}

	return s.people.DeleteByID(ctx, id)
}

// BooksHeld returns the books the person currently holds, each annotated
// with its overdue flag computed at query time. A person holding nothing, or
// an unknown person id, yields an empty slice.
func (s *Service) BooksHeld(ctx context.Context, personID int64) ([]core.Book, error) {
	books, err := s.books.FindByOwner(ctx, personID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range books {
		books[i].Overdue = core.IsOverdue(books[i].LentAt, now)
	}

	return books, nil
}

// validate runs the static field checks and the uniqueness-by-name rule.
// A non-zero ignoreID exempts that record from the duplicate check, so an
// update does not collide with itself.
func (s *Service) validate(ctx context.Context, person core.Person, ignoreID int64) error {
	if err := core.ValidatePerson(person); err != nil {
		return err
	}

	existing, err := s.people.FindByFullName(ctx, person.FullName)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if existing.ID != ignoreID {
		return core.ValidationError{Field: "fullName", Message: duplicateFullNameMessage}
	}

	return nil
}
