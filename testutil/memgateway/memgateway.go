// Package memgateway provides an in-memory implementation of the storage
// gateway contract for service tests and ephemeral environments.
package memgateway

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/libris-project/libris/core"
	"github.com/libris-project/libris/storage"
)

// Store holds Book and Person records in memory behind a mutex. The zero
// value is not usable; create one with NewStore.
type Store struct {
	mu           sync.Mutex
	books        map[int64]core.Book
	persons      map[int64]core.Person
	nextBookID   int64
	nextPersonID int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		books:   make(map[int64]core.Book),
		persons: make(map[int64]core.Person),
	}
}

// Books returns the book-facing side of the store.
func (s *Store) Books() storage.BookGateway {
	return bookGateway{s}
}

// People returns the person-facing side of the store.
func (s *Store) People() storage.PersonGateway {
	return personGateway{s}
}

// bookGateway implements storage.BookGateway.
type bookGateway struct {
	store *Store
}

var _ storage.BookGateway = bookGateway{}

func (g bookGateway) ListAll(_ context.Context, sort storage.SortKey) ([]core.Book, error) {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	return sortedBooks(g.store.books, sort), nil
}

func (g bookGateway) ListPage(_ context.Context, offset, limit int, sort storage.SortKey) ([]core.Book, error) {
	if limit <= 0 || offset < 0 {
		return nil, storage.ErrInvalidPageBounds
	}

	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	books := sortedBooks(g.store.books, sort)

	if offset >= len(books) {
		return []core.Book{}, nil
	}

	end := offset + limit
	if end > len(books) {
		end = len(books)
	}

	return books[offset:end], nil
}

func (g bookGateway) GetByID(_ context.Context, id int64) (core.Book, error) {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	book, exists := g.store.books[id]
	if !exists {
		return core.Book{}, storage.ErrNotFound
	}

	return book, nil
}

func (g bookGateway) Insert(_ context.Context, book core.Book) (int64, error) {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	g.store.nextBookID++
	book.ID = g.store.nextBookID
	book.OwnerID = nil
	book.LentAt = nil
	g.store.books[book.ID] = book

	return book.ID, nil
}

func (g bookGateway) Update(_ context.Context, id int64, book core.Book) error {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	existing, exists := g.store.books[id]
	if !exists {
		return nil
	}

	existing.Title = book.Title
	existing.Author = book.Author
	existing.Year = book.Year
	g.store.books[id] = existing

	return nil
}

func (g bookGateway) DeleteByID(_ context.Context, id int64) error {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	delete(g.store.books, id)

	return nil
}

func (g bookGateway) FindByTitlePrefix(_ context.Context, prefix string) ([]core.Book, error) {
	if prefix == "" {
		return []core.Book{}, nil
	}

	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	matches := make([]core.Book, 0)
	for _, book := range sortedBooks(g.store.books, storage.SortTitle) {
		if strings.HasPrefix(book.Title, prefix) {
			matches = append(matches, book)
		}
	}

	return matches, nil
}

func (g bookGateway) FindByOwner(_ context.Context, personID int64) ([]core.Book, error) {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	held := make([]core.Book, 0)
	for _, book := range g.store.books {
		if book.OwnerID != nil && *book.OwnerID == personID {
			held = append(held, book)
		}
	}

	slices.SortFunc(held, func(a, b core.Book) int {
		return a.LentAt.Compare(*b.LentAt)
	})

	return held, nil
}

func (g bookGateway) AssignOwner(_ context.Context, bookID, personID int64, lentAt time.Time) (bool, error) {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	book, exists := g.store.books[bookID]
	if !exists {
		return false, nil
	}

	book.OwnerID = &personID
	book.LentAt = &lentAt
	g.store.books[bookID] = book

	return true, nil
}

func (g bookGateway) ReleaseOwner(_ context.Context, bookID int64) error {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	book, exists := g.store.books[bookID]
	if !exists {
		return nil
	}

	book.OwnerID = nil
	book.LentAt = nil
	g.store.books[bookID] = book

	return nil
}

func (g bookGateway) ReleaseAllByOwner(_ context.Context, personID int64) error {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	for id, book := range g.store.books {
		if book.OwnerID != nil && *book.OwnerID == personID {
			book.OwnerID = nil
			book.LentAt = nil
			g.store.books[id] = book
		}
	}

	return nil
}

// personGateway implements storage.PersonGateway.
type personGateway struct {
	store *Store
}

var _ storage.PersonGateway = personGateway{}

func (g personGateway) ListAll(_ context.Context, sort storage.SortKey) ([]core.Person, error) {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	persons := make([]core.Person, 0, len(g.store.persons))
	for _, person := range g.store.persons {
		persons = append(persons, person)
	}

	slices.SortFunc(persons, func(a, b core.Person) int {
		if sort == storage.SortFullName {
			return strings.Compare(a.FullName, b.FullName)
		}

		return int(a.ID - b.ID)
	})

	return persons, nil
}

func (g personGateway) GetByID(_ context.Context, id int64) (core.Person, error) {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	person, exists := g.store.persons[id]
	if !exists {
		return core.Person{}, storage.ErrNotFound
	}

	return person, nil
}

func (g personGateway) Insert(_ context.Context, person core.Person) (int64, error) {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	g.store.nextPersonID++
	person.ID = g.store.nextPersonID
	g.store.persons[person.ID] = person

	return person.ID, nil
}

func (g personGateway) Update(_ context.Context, id int64, person core.Person) error {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	if _, exists := g.store.persons[id]; !exists {
		return nil
	}

	person.ID = id
	g.store.persons[id] = person

	return nil
}

func (g personGateway) DeleteByID(_ context.Context, id int64) error {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	delete(g.store.persons, id)

	return nil
}

func (g personGateway) FindByFullName(_ context.Context, fullName string) (core.Person, error) {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	for _, person := range g.store.persons {
		if person.FullName == fullName {
			return person, nil
		}
	}

	return core.Person{}, storage.ErrNotFound
}

func sortedBooks(books map[int64]core.Book, sort storage.SortKey) []core.Book {
	all := make([]core.Book, 0, len(books))
	for _, book := range books {
		all = append(all, book)
	}

	slices.SortFunc(all, func(a, b core.Book) int {
		switch sort {
		case storage.SortTitle:
			return strings.Compare(a.Title, b.Title)
		case storage.SortYear:
			return a.Year - b.Year
		default:
			return int(a.ID - b.ID)
		}
	})

	return all
}
