package httpapi

import (
	"net/http"

	"github.com/libris-project/libris/core"
)

// personView is the payload for a single-person page: the person plus the
// books they currently hold, overdue flags included.
type personView struct {
	Person core.Person `json:"person"`
	Books  []core.Book `json:"books"`
}

// personRequest is the form-bound payload for creating or updating a person.
type personRequest struct {
	FullName    string `json:"fullName"`
	YearOfBirth int    `json:"yearOfBirth"`
}

func (s *Server) listPeople(w http.ResponseWriter, r *http.Request) {
	people, err := s.directory.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, people)
}

func (s *Server) createPerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	id, err := s.directory.Create(r.Context(), core.Person{FullName: req.FullName, YearOfBirth: req.YearOfBirth})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) showPerson(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	person, err := s.directory.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if person == nil {
		s.writeNotFound(w, r)
		return
	}

	books, err := s.directory.BooksHeld(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, personView{Person: *person, Books: books})
}

func (s *Server) updatePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req personRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.directory.Update(r.Context(), id, core.Person{FullName: req.FullName, YearOfBirth: req.YearOfBirth}); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deletePerson(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.directory.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
