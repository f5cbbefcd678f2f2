package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/libris-project/libris/catalog"
	"github.com/libris-project/libris/core"
	"github.com/libris-project/libris/storage"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxRequestBodyBytes = 1 << 20

// fieldError is the response body for a validation failure.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if encodeErr := json.NewEncoder(w).Encode(v); encodeErr != nil {
		s.logger.WarnContext(r.Context(), "failed to encode response body", "error", encodeErr.Error())
	}
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	if decodeErr := json.NewDecoder(r.Body).Decode(dst); decodeErr != nil {
		s.writeJSON(w, r, http.StatusBadRequest, fieldError{Field: "body", Message: "request body is not valid JSON"})
		return false
	}

	return true
}

// writeServiceError maps the service error taxonomy onto HTTP statuses:
// validation failures to 422, missing records to 404, bad parameters to 400,
// and everything else (storage failures) to 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr core.ValidationError
	if errors.As(err, &validationErr) {
		s.writeJSON(w, r, http.StatusUnprocessableEntity, fieldError{
			Field:   validationErr.Field,
			Message: validationErr.Message,
		})

		return
	}

	if errors.Is(err, catalog.ErrBookNotFound) {
		s.writeNotFound(w, r)
		return
	}

	if errors.Is(err, storage.ErrInvalidPageBounds) {
		s.writeJSON(w, r, http.StatusBadRequest, fieldError{Field: "page", Message: "invalid page parameters"})
		return
	}

	s.logger.ErrorContext(r.Context(), "request failed", "error", err.Error())
	s.writeJSON(w, r, http.StatusInternalServerError, map[string]string{"message": "internal error"})
}

func (s *Server) writeNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusNotFound, map[string]string{"message": "not found"})
}

// pathID parses the {id} path segment. Reports false after responding with
// 404 when the segment is not a number.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, parseErr := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if parseErr != nil {
		s.writeNotFound(w, r)
		return 0, false
	}

	return id, true
}
