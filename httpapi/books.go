package httpapi

import (
	"net/http"
	"strconv"

	"github.com/libris-project/libris/core"
	"github.com/libris-project/libris/storage"
)

// bookView is the payload for a single-book page: the book itself plus
// either its current owner or, when the book is available, the people the
// assign form can offer.
type bookView struct {
	Book   core.Book     `json:"book"`
	Owner  *core.Person  `json:"owner,omitempty"`
	People []core.Person `json:"people,omitempty"`
}

// bookRequest is the form-bound payload for creating or updating a book.
type bookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
}

// assignRequest is the payload for assigning a book to a person.
type assignRequest struct {
	PersonID int64 `json:"personId"`
}

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sort := sortKeyFromQuery(query.Get("sort_by"))

	if query.Has("page") || query.Has("books_per_page") {
		page, pageErr := strconv.Atoi(query.Get("page"))
		pageSize, sizeErr := strconv.Atoi(query.Get("books_per_page"))

		if pageErr != nil || sizeErr != nil {
			s.writeJSON(w, r, http.StatusBadRequest, fieldError{Field: "page", Message: "page and books_per_page must be integers"})
			return
		}

		books, err := s.catalog.ListPage(r.Context(), page, pageSize, sort)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		s.writeJSON(w, r, http.StatusOK, books)

		return
	}

	books, err := s.catalog.List(r.Context(), sort)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, books)
}

func (s *Server) createBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	id, err := s.catalog.Create(r.Context(), core.Book{Title: req.Title, Author: req.Author, Year: req.Year})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) searchBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.catalog.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, books)
}

func (s *Server) showBook(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	book, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if book == nil {
		s.writeNotFound(w, r)
		return
	}

	view := bookView{Book: *book}

	owner, err := s.catalog.Owner(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if owner != nil {
		view.Owner = owner
	} else {
		people, listErr := s.directory.List(r.Context())
		if listErr != nil {
			s.writeServiceError(w, r, listErr)
			return
		}

		view.People = people
	}

	s.writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) updateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req bookRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.catalog.Update(r.Context(), id, core.Book{Title: req.Title, Author: req.Author, Year: req.Year}); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.catalog.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) assignBook(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req assignRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.catalog.Assign(r.Context(), id, req.PersonID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) releaseBook(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.catalog.Release(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func sortKeyFromQuery(value string) storage.SortKey {
	switch value {
	case "year":
		return storage.SortYear
	case "title":
		return storage.SortTitle
	default:
		return storage.SortNone
	}
}
