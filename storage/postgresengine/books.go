package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/libris-project/libris/core"
	"github.com/libris-project/libris/storage"
)

const (
	opListBooks         = "list_books"
	opGetBook           = "get_book"
	opInsertBook        = "insert_book"
	opUpdateBook        = "update_book"
	opDeleteBook        = "delete_book"
	opSearchBooks       = "search_books"
	opBooksByOwner      = "books_by_owner"
	opAssignOwner       = "assign_owner"
	opReleaseOwner      = "release_owner"
	opReleaseAllByOwner = "release_all_by_owner"
)

// bookGateway implements storage.BookGateway on top of the shared Gateway.
type bookGateway struct {
	*Gateway
}

var _ storage.BookGateway = bookGateway{}

func (g bookGateway) ListAll(ctx context.Context, sort storage.SortKey) ([]core.Book, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(g.bookTable).
		Select(colID, colTitle, colAuthor, colYear, colPersonID, colLentAt).
		Order(goqu.I(bookOrderColumn(sort)).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return nil, g.buildQueryFailed(ctx, opListBooks, toSQLErr)
	}

	return g.queryBooks(ctx, sqlQuery, opListBooks)
}

func (g bookGateway) ListPage(ctx context.Context, offset, limit int, sort storage.SortKey) ([]core.Book, error) {
	if limit <= 0 || offset < 0 {
		return nil, storage.ErrInvalidPageBounds
	}

	selectStmt := goqu.Dialect(dialectPostgres).
		From(g.bookTable).
		Select(colID, colTitle, colAuthor, colYear, colPersonID, colLentAt).
		Order(goqu.I(bookOrderColumn(sort)).Asc()).
		Offset(uint(offset)).
		Limit(uint(limit))

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return nil, g.buildQueryFailed(ctx, opListBooks, toSQLErr)
	}

	return g.queryBooks(ctx, sqlQuery, opListBooks)
}

func (g bookGateway) GetByID(ctx context.Context, id int64) (core.Book, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(g.bookTable).
		Select(colID, colTitle, colAuthor, colYear, colPersonID, colLentAt).
		Where(goqu.Ex{colID: id})

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return core.Book{}, g.buildQueryFailed(ctx, opGetBook, toSQLErr)
	}

	books, queryErr := g.queryBooks(ctx, sqlQuery, opGetBook)
	if queryErr != nil {
		return core.Book{}, queryErr
	}

	if len(books) == 0 {
		return core.Book{}, storage.ErrNotFound
	}

	return books[0], nil
}

func (g bookGateway) Insert(ctx context.Context, book core.Book) (int64, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(g.bookTable).
		Rows(goqu.Record{
			colTitle:  book.Title,
			colAuthor: book.Author,
			colYear:   book.Year,
		}).
		Returning(goqu.C(colID))

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return 0, g.buildQueryFailed(ctx, opInsertBook, toSQLErr)
	}

	return g.queryReturnedID(ctx, sqlQuery, opInsertBook)
}

func (g bookGateway) Update(ctx context.Context, id int64, book core.Book) error {
	// Owner and loan start are deliberately untouched so an edit never
	// clears an existing loan.
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(g.bookTable).
		Set(goqu.Record{
			colTitle:  book.Title,
			colAuthor: book.Author,
			colYear:   book.Year,
		}).
		Where(goqu.Ex{colID: id})

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return g.buildQueryFailed(ctx, opUpdateBook, toSQLErr)
	}

	_, execErr := g.executeStatement(ctx, sqlQuery, opUpdateBook)

	return execErr
}

func (g bookGateway) DeleteByID(ctx context.Context, id int64) error {
	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(g.bookTable).
		Where(goqu.Ex{colID: id})

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()
	if toSQLErr != nil {
		return g.buildQueryFailed(ctx, opDeleteBook, toSQLErr)
	}

	_, execErr := g.executeStatement(ctx, sqlQuery, opDeleteBook)

	return execErr
}

func (g bookGateway) FindByTitlePrefix(ctx context.Context, prefix string) ([]core.Book, error) {
	if prefix == "" {
		return []core.Book{}, nil
	}

	selectStmt := goqu.Dialect(dialectPostgres).
		From(g.bookTable).
		Select(colID, colTitle, colAuthor, colYear, colPersonID, colLentAt).
		Where(goqu.C(colTitle).Like(escapeLikePrefix(prefix) + "%")).
		Order(goqu.I(colTitle).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return nil, g.buildQueryFailed(ctx, opSearchBooks, toSQLErr)
	}

	return g.queryBooks(ctx, sqlQuery, opSearchBooks)
}

func (g bookGateway) FindByOwner(ctx context.Context, personID int64) ([]core.Book, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(g.bookTable).
		Select(colID, colTitle, colAuthor, colYear, colPersonID, colLentAt).
		Where(goqu.Ex{colPersonID: personID}).
		Order(goqu.I(colLentAt).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return nil, g.buildQueryFailed(ctx, opBooksByOwner, toSQLErr)
	}

	return g.queryBooks(ctx, sqlQuery, opBooksByOwner)
}

func (g bookGateway) AssignOwner(ctx context.Context, bookID, personID int64, lentAt time.Time) (bool, error) {
	// Owner and loan start change in a single statement: both or neither.
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(g.bookTable).
		Set(goqu.Record{
			colPersonID: personID,
			colLentAt:   lentAt,
		}).
		Where(goqu.Ex{colID: bookID})

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return false, g.buildQueryFailed(ctx, opAssignOwner, toSQLErr)
	}

	rowsAffected, execErr := g.executeStatement(ctx, sqlQuery, opAssignOwner)
	if execErr != nil {
		return false, execErr
	}

	return rowsAffected > 0, nil
}

func (g bookGateway) ReleaseOwner(ctx context.Context, bookID int64) error {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(g.bookTable).
		Set(goqu.Record{
			colPersonID: nil,
			colLentAt:   nil,
		}).
		Where(goqu.Ex{colID: bookID})

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return g.buildQueryFailed(ctx, opReleaseOwner, toSQLErr)
	}

	_, execErr := g.executeStatement(ctx, sqlQuery, opReleaseOwner)

	return execErr
}

func (g bookGateway) ReleaseAllByOwner(ctx context.Context, personID int64) error {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(g.bookTable).
		Set(goqu.Record{
			colPersonID: nil,
			colLentAt:   nil,
		}).
		Where(goqu.Ex{colPersonID: personID})

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return g.buildQueryFailed(ctx, opReleaseAllByOwner, toSQLErr)
	}

	_, execErr := g.executeStatement(ctx, sqlQuery, opReleaseAllByOwner)

	return execErr
}

// queryBooks executes a book select and decodes the result rows.
func (g bookGateway) queryBooks(ctx context.Context, sqlQuery sqlQueryString, operation string) ([]core.Book, error) {
	rows, queryErr := g.executeQuery(ctx, sqlQuery, operation)
	if queryErr != nil {
		return nil, queryErr
	}
	defer g.closeRows(ctx, rows)

	books := make([]core.Book, 0)

	for rows.Next() {
		var (
			book    core.Book
			ownerID sql.NullInt64
			lentAt  sql.NullTime
		)

		if scanErr := rows.Scan(&book.ID, &book.Title, &book.Author, &book.Year, &ownerID, &lentAt); scanErr != nil {
			g.logError(ctx, logMsgScanRowFailed, scanErr)
			g.recordErrorMetrics(ctx, operation, errorTypeScan)

			return nil, errors.Join(storage.ErrScanningRowFailed, scanErr)
		}

		if ownerID.Valid {
			owner := ownerID.Int64
			book.OwnerID = &owner
		}

		if lentAt.Valid {
			lent := lentAt.Time
			book.LentAt = &lent
		}

		books = append(books, book)
	}

	// A failure mid-iteration surfaces here, not from Next.
	if rowsErr := rows.Err(); rowsErr != nil {
		g.logError(ctx, logMsgDBQueryFailed, rowsErr)
		g.recordErrorMetrics(ctx, operation, errorTypeQuery)

		return nil, errors.Join(storage.ErrQueryFailed, rowsErr)
	}

	g.logOperation(ctx, operation, logAttrRecordCount, len(books))

	return books, nil
}

// queryReturnedID executes an insert with a RETURNING clause and scans the
// store-assigned id.
func (g *Gateway) queryReturnedID(ctx context.Context, sqlQuery sqlQueryString, operation string) (int64, error) {
	rows, queryErr := g.executeQuery(ctx, sqlQuery, operation)
	if queryErr != nil {
		return 0, queryErr
	}
	defer g.closeRows(ctx, rows)

	var id int64

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			g.logError(ctx, logMsgDBQueryFailed, rowsErr)
			g.recordErrorMetrics(ctx, operation, errorTypeQuery)

			return 0, errors.Join(storage.ErrQueryFailed, rowsErr)
		}

		return 0, errors.Join(storage.ErrExecFailed, errors.New("insert returned no id"))
	}

	if scanErr := rows.Scan(&id); scanErr != nil {
		g.logError(ctx, logMsgScanRowFailed, scanErr)
		g.recordErrorMetrics(ctx, operation, errorTypeScan)

		return 0, errors.Join(storage.ErrScanningRowFailed, scanErr)
	}

	return id, nil
}

// bookOrderColumn maps a sort key to the column the listing is ordered by.
// The default order is by id, which is the insertion order.
func bookOrderColumn(sort storage.SortKey) string {
	switch sort {
	case storage.SortTitle:
		return colTitle
	case storage.SortYear:
		return colYear
	default:
		return colID
	}
}
