package httpapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libris-project/libris/catalog"
	"github.com/libris-project/libris/directory"
	"github.com/libris-project/libris/httpapi"
	"github.com/libris-project/libris/testutil/memgateway"
)

func Test_POST_Books_Then_GET_Book(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()

	// act
	createStatus, createBody := doJSON(t, handler, http.MethodPost, "/books",
		`{"title": "Dune", "author": "Frank Herbert", "year": 1965}`)

	// assert
	assert.Equal(t, http.StatusCreated, createStatus)
	id := int64(createBody["id"].(float64))

	showStatus, showBody := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/books/%d", id), "")
	assert.Equal(t, http.StatusOK, showStatus)
	book := showBody["book"].(map[string]any)
	assert.Equal(t, "Dune", book["title"])
	assert.Equal(t, "Frank Herbert", book["author"])
	assert.Equal(t, float64(1965), book["year"])
}

func Test_POST_Books_When_TheTitleIsEmpty(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()

	// act
	status, body := doJSON(t, handler, http.MethodPost, "/books",
		`{"title": "", "author": "Nobody", "year": 2000}`)

	// assert
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "title", body["field"])
}

func Test_POST_Books_When_TheBodyIsNotJSON(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()

	// act
	status, body := doJSON(t, handler, http.MethodPost, "/books", `not json at all`)

	// assert
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "body", body["field"])
}

func Test_GET_Book_When_TheBookDoesNotExist(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()

	// act
	status, _ := doJSON(t, handler, http.MethodGet, "/books/42", "")

	// assert
	assert.Equal(t, http.StatusNotFound, status)
}

func Test_GET_Book_When_TheIDIsNotANumber(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()

	// act
	status, _ := doJSON(t, handler, http.MethodGet, "/books/not-a-number", "")

	// assert
	assert.Equal(t, http.StatusNotFound, status)
}

func Test_GET_Books_Lists_TheCatalog_SortedByTitle(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()
	createBookOverHTTP(t, handler, "The Hobbit", "Tolkien", 1937)
	createBookOverHTTP(t, handler, "Dune", "Herbert", 1965)

	// act
	status, books := doJSONList(t, handler, http.MethodGet, "/books")

	// assert
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, books, 2)
	assert.Equal(t, "Dune", books[0]["title"])
	assert.Equal(t, "The Hobbit", books[1]["title"])
}

func Test_GET_Books_With_Pagination(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()
	createBookOverHTTP(t, handler, "Dune", "Herbert", 1965)
	createBookOverHTTP(t, handler, "Neuromancer", "Gibson", 1984)
	createBookOverHTTP(t, handler, "The Hobbit", "Tolkien", 1937)

	// act
	status, books := doJSONList(t, handler, http.MethodGet, "/books?page=0&books_per_page=2")

	// assert
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, books, 2)
}

func Test_GET_Books_When_ThePageParametersAreNotNumbers(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()

	// act
	status, _ := doJSON(t, handler, http.MethodGet, "/books?page=zero&books_per_page=ten", "")

	// assert
	assert.Equal(t, http.StatusBadRequest, status)
}

func Test_GET_Books_When_ThePageIsNegative(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()

	// act
	status, body := doJSON(t, handler, http.MethodGet, "/books?page=-1&books_per_page=10", "")

	// assert
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "page", body["field"])
}

func Test_GET_BooksSearch_Matches_Prefixes(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()
	createBookOverHTTP(t, handler, "Harry Potter", "Rowling", 1997)
	createBookOverHTTP(t, handler, "The Hobbit", "Tolkien", 1937)

	// act
	status, books := doJSONList(t, handler, http.MethodGet, "/books/search?query=Har")

	// assert
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, books, 1)
	assert.Equal(t, "Harry Potter", books[0]["title"])
}

func Test_GET_BooksSearch_When_TheQueryIsEmpty(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()
	createBookOverHTTP(t, handler, "Dune", "Herbert", 1965)

	// act
	status, books := doJSONList(t, handler, http.MethodGet, "/books/search")

	// assert
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, books)
}

func Test_PATCH_BookAssign_Then_ShowBook_IncludesTheOwner(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()
	bookID := createBookOverHTTP(t, handler, "Dune", "Herbert", 1965)
	personID := createPersonOverHTTP(t, handler, "John Doe", 1984)

	// act
	status, _ := doJSON(t, handler, http.MethodPatch, fmt.Sprintf("/books/%d/assign", bookID),
		fmt.Sprintf(`{"personId": %d}`, personID))

	// assert
	assert.Equal(t, http.StatusNoContent, status)

	showStatus, showBody := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/books/%d", bookID), "")
	assert.Equal(t, http.StatusOK, showStatus)
	owner := showBody["owner"].(map[string]any)
	assert.Equal(t, "John Doe", owner["fullName"])
	assert.Nil(t, showBody["people"], "a loaned book carries its owner, not the assign candidates")
}

func Test_PATCH_BookAssign_When_TheBookDoesNotExist(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()
	personID := createPersonOverHTTP(t, handler, "John Doe", 1984)

	// act
	status, _ := doJSON(t, handler, http.MethodPatch, "/books/42/assign",
		fmt.Sprintf(`{"personId": %d}`, personID))

	// assert
	assert.Equal(t, http.StatusNotFound, status)
}

func Test_PATCH_BookRelease_Then_ShowBook_OffersTheAssignCandidates(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()
	bookID := createBookOverHTTP(t, handler, "Dune", "Herbert", 1965)
	personID := createPersonOverHTTP(t, handler, "John Doe", 1984)
	status, _ := doJSON(t, handler, http.MethodPatch, fmt.Sprintf("/books/%d/assign", bookID),
		fmt.Sprintf(`{"personId": %d}`, personID))
	assert.Equal(t, http.StatusNoContent, status)

	// act
	status, _ = doJSON(t, handler, http.MethodPatch, fmt.Sprintf("/books/%d/release", bookID), "")

	// assert
	assert.Equal(t, http.StatusNoContent, status)

	showStatus, showBody := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/books/%d", bookID), "")
	assert.Equal(t, http.StatusOK, showStatus)
	assert.Nil(t, showBody["owner"])
	people := showBody["people"].([]any)
	assert.Len(t, people, 1, "an available book offers the registered people for assignment")
}

func Test_PATCH_Book_Updates_TheFields(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()
	bookID := createBookOverHTTP(t, handler, "Dun", "Herbert", 1964)

	// act
	status, _ := doJSON(t, handler, http.MethodPatch, fmt.Sprintf("/books/%d", bookID),
		`{"title": "Dune", "author": "Frank Herbert", "year": 1965}`)

	// assert
	assert.Equal(t, http.StatusNoContent, status)

	showStatus, showBody := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/books/%d", bookID), "")
	assert.Equal(t, http.StatusOK, showStatus)
	book := showBody["book"].(map[string]any)
	assert.Equal(t, "Dune", book["title"])
}

func Test_DELETE_Book_Removes_It(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()
	bookID := createBookOverHTTP(t, handler, "Dune", "Herbert", 1965)

	// act
	status, _ := doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/books/%d", bookID), "")

	// assert
	assert.Equal(t, http.StatusNoContent, status)

	showStatus, _ := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/books/%d", bookID), "")
	assert.Equal(t, http.StatusNotFound, showStatus)
}

func Test_POST_People_When_TheFullNameIsTaken(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()
	createPersonOverHTTP(t, handler, "John Doe", 1984)

	// act
	status, body := doJSON(t, handler, http.MethodPost, "/people",
		`{"fullName": "John Doe", "yearOfBirth": 1990}`)

	// assert
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "fullName", body["field"])
}

func Test_GET_Person_Includes_TheHeldBooks(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()
	personID := createPersonOverHTTP(t, handler, "John Doe", 1984)
	bookID := createBookOverHTTP(t, handler, "Dune", "Herbert", 1965)
	status, _ := doJSON(t, handler, http.MethodPatch, fmt.Sprintf("/books/%d/assign", bookID),
		fmt.Sprintf(`{"personId": %d}`, personID))
	assert.Equal(t, http.StatusNoContent, status)

	// act
	showStatus, showBody := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/people/%d", personID), "")

	// assert
	assert.Equal(t, http.StatusOK, showStatus)
	person := showBody["person"].(map[string]any)
	assert.Equal(t, "John Doe", person["fullName"])
	books := showBody["books"].([]any)
	assert.Len(t, books, 1)
	heldBook := books[0].(map[string]any)
	assert.Equal(t, "Dune", heldBook["title"])
	assert.Equal(t, false, heldBook["overdue"])
}

func Test_DELETE_Person_Releases_TheHeldBooks(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()
	personID := createPersonOverHTTP(t, handler, "John Doe", 1984)
	bookID := createBookOverHTTP(t, handler, "Dune", "Herbert", 1965)
	status, _ := doJSON(t, handler, http.MethodPatch, fmt.Sprintf("/books/%d/assign", bookID),
		fmt.Sprintf(`{"personId": %d}`, personID))
	assert.Equal(t, http.StatusNoContent, status)

	// act
	status, _ = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/people/%d", personID), "")

	// assert
	assert.Equal(t, http.StatusNoContent, status)

	showStatus, showBody := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/books/%d", bookID), "")
	assert.Equal(t, http.StatusOK, showStatus)
	assert.Nil(t, showBody["owner"])
}

func Test_Responses_Carry_ARequestID(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()

	// act
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/books", nil))

	// assert
	assert.NotEmpty(t, recorder.Header().Get("X-Request-Id"))
}

func Test_Responses_Keep_AClientRequestID(t *testing.T) {
	// arrange
	handler, _ := newTestHandler()
	request := httptest.NewRequest(http.MethodGet, "/books", nil)
	request.Header.Set("X-Request-Id", "client-supplied-id")

	// act
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	// assert
	assert.Equal(t, "client-supplied-id", recorder.Header().Get("X-Request-Id"))
}

func newTestHandler() (http.Handler, *memgateway.Store) {
	store := memgateway.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalogService := catalog.NewService(store.Books(), store.People())
	directoryService := directory.NewService(store.People(), store.Books())
	server := httpapi.NewServer(catalogService, directoryService, logger)

	return server.Handler(), store
}

func createBookOverHTTP(t *testing.T, handler http.Handler, title, author string, year int) int64 {
	t.Helper()

	status, body := doJSON(t, handler, http.MethodPost, "/books",
		fmt.Sprintf(`{"title": %q, "author": %q, "year": %d}`, title, author, year))
	assert.Equal(t, http.StatusCreated, status, "error creating book in test setup")

	return int64(body["id"].(float64))
}

func createPersonOverHTTP(t *testing.T, handler http.Handler, fullName string, yearOfBirth int) int64 {
	t.Helper()

	status, body := doJSON(t, handler, http.MethodPost, "/people",
		fmt.Sprintf(`{"fullName": %q, "yearOfBirth": %d}`, fullName, yearOfBirth))
	assert.Equal(t, http.StatusCreated, status, "error creating person in test setup")

	return int64(body["id"].(float64))
}

func doJSON(t *testing.T, handler http.Handler, method, target, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	request := httptest.NewRequest(method, target, reader)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	decoded := map[string]any{}
	if recorder.Body.Len() > 0 {
		decodeErr := json.Unmarshal(recorder.Body.Bytes(), &decoded)
		assert.NoError(t, decodeErr, "error decoding response body: %s", recorder.Body.String())
	}

	return recorder.Code, decoded
}

func doJSONList(t *testing.T, handler http.Handler, method, target string) (int, []map[string]any) {
	t.Helper()

	request := httptest.NewRequest(method, target, nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	var decoded []map[string]any
	decodeErr := json.Unmarshal(recorder.Body.Bytes(), &decoded)
	assert.NoError(t, decodeErr, "error decoding response body: %s", recorder.Body.String())

	return recorder.Code, decoded
}
