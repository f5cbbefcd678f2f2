package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/libris-project/libris/catalog"
	"github.com/libris-project/libris/directory"
)

// Server routes HTTP requests to the catalog and directory services.
type Server struct {
	catalog   *catalog.Service
	directory *directory.Service
	logger    *slog.Logger
	handler   http.Handler
}

// NewServer creates a Server wired to the given services. The logger is used
// for access logging and for storage failures surfaced as 500 responses.
func NewServer(catalogService *catalog.Service, directoryService *directory.Service, logger *slog.Logger) *Server {
	s := &Server{
		catalog:   catalogService,
		directory: directoryService,
		logger:    logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /books", s.listBooks)
	mux.HandleFunc("POST /books", s.createBook)
	mux.HandleFunc("GET /books/search", s.searchBooks)
	mux.HandleFunc("GET /books/{id}", s.showBook)
	mux.HandleFunc("PATCH /books/{id}", s.updateBook)
	mux.HandleFunc("DELETE /books/{id}", s.deleteBook)
	mux.HandleFunc("PATCH /books/{id}/assign", s.assignBook)
	mux.HandleFunc("PATCH /books/{id}/release", s.releaseBook)

	mux.HandleFunc("GET /people", s.listPeople)
	mux.HandleFunc("POST /people", s.createPerson)
	mux.HandleFunc("GET /people/{id}", s.showPerson)
	mux.HandleFunc("PATCH /people/{id}", s.updatePerson)
	mux.HandleFunc("DELETE /people/{id}", s.deletePerson)

	s.handler = s.withAccessLog(mux)

	return s
}

// Handler returns the root handler, with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}
