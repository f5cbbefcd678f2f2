package mysqlengine

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql" // dialect import
	_ "github.com/go-sql-driver/mysql"               // driver import

	"github.com/libris-project/libris/core"
	"github.com/libris-project/libris/storage"
)

const (
	defaultBookTableName   = "book"
	defaultPersonTableName = "person"

	dialectMySQL = "mysql"

	colID          = "id"
	colTitle       = "title"
	colAuthor      = "author"
	colYear        = "year"
	colPersonID    = "person_id"
	colLentAt      = "lent_at"
	colFullName    = "full_name"
	colYearOfBirth = "year_of_birth"

	logMsgDBQueryFailed = "database query execution failed"
	logMsgDBExecFailed  = "database statement execution failed"
	logMsgScanRowFailed = "failed to scan database row"
	logMsgSQLExecuted   = "executed sql"

	logAttrError      = "error"
	logAttrQuery      = "query"
	logAttrDurationMS = "duration_ms"
)

// Gateway is the MySQL implementation behind the storage gateway contract.
type Gateway struct {
	db          *sql.DB
	bookTable   string
	personTable string
	logger      storage.Logger
}

// Option defines a functional option for configuring the Gateway.
type Option func(*Gateway) error

// WithTableNames sets the book and person table names for the Gateway.
func WithTableNames(bookTable, personTable string) Option {
	return func(g *Gateway) error {
		if bookTable == "" || personTable == "" {
			return storage.ErrEmptyTableName
		}

		g.bookTable = bookTable
		g.personTable = personTable

		return nil
	}
}

// WithLogger sets the logger for the Gateway.
func WithLogger(logger storage.Logger) Option {
	return func(g *Gateway) error {
		g.logger = logger
		return nil
	}
}

// NewGatewayFromSQLDB creates a new Gateway using a sql.DB with optional configuration.
//
// The connection must be opened with clientFoundRows=true in the DSN:
// AssignOwner decides whether the book exists from the affected row count,
// and without the flag the driver reports changed rows, so an update that
// rewrites identical values would look like a missing record.
func NewGatewayFromSQLDB(db *sql.DB, options ...Option) (*Gateway, error) {
	if db == nil {
		return nil, storage.ErrNilDatabaseConnection
	}

	g := &Gateway{
		db:          db,
		bookTable:   defaultBookTableName,
		personTable: defaultPersonTableName,
	}

	for _, option := range options {
		if err := option(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Books returns the book-facing side of the gateway.
func (g *Gateway) Books() storage.BookGateway {
	return bookGateway{g}
}

// People returns the person-facing side of the gateway.
func (g *Gateway) People() storage.PersonGateway {
	return personGateway{g}
}

func (g *Gateway) query(ctx context.Context, sqlQuery string) (*sql.Rows, error) {
	start := time.Now()
	rows, queryErr := g.db.QueryContext(ctx, sqlQuery)
	g.logStatement(sqlQuery, time.Since(start))

	if queryErr != nil {
		g.logErr(logMsgDBQueryFailed, queryErr, sqlQuery)
		return nil, errors.Join(storage.ErrQueryFailed, queryErr)
	}

	return rows, nil
}

func (g *Gateway) exec(ctx context.Context, sqlQuery string) (sql.Result, error) {
	start := time.Now()
	result, execErr := g.db.ExecContext(ctx, sqlQuery)
	g.logStatement(sqlQuery, time.Since(start))

	if execErr != nil {
		g.logErr(logMsgDBExecFailed, execErr, sqlQuery)
		return nil, errors.Join(storage.ErrExecFailed, execErr)
	}

	return result, nil
}

func (g *Gateway) logStatement(sqlQuery string, duration time.Duration) {
	if g.logger != nil {
		g.logger.Debug(logMsgSQLExecuted, logAttrDurationMS, duration.Milliseconds(), logAttrQuery, sqlQuery)
	}
}

func (g *Gateway) logErr(msg string, err error, sqlQuery string) {
	if g.logger != nil {
		g.logger.Error(msg, logAttrError, err.Error(), logAttrQuery, sqlQuery)
	}
}

func (g *Gateway) scanFailed(err error) error {
	if g.logger != nil {
		g.logger.Error(logMsgScanRowFailed, logAttrError, err.Error())
	}

	return errors.Join(storage.ErrScanningRowFailed, err)
}

// bookGateway implements storage.BookGateway.
type bookGateway struct {
	*Gateway
}

var _ storage.BookGateway = bookGateway{}

func (g bookGateway) ListAll(ctx context.Context, sort storage.SortKey) ([]core.Book, error) {
	return g.selectBooks(ctx, g.bookSelect().Order(goqu.I(bookOrderColumn(sort)).Asc()))
}

func (g bookGateway) ListPage(ctx context.Context, offset, limit int, sort storage.SortKey) ([]core.Book, error) {
	if limit <= 0 || offset < 0 {
		return nil, storage.ErrInvalidPageBounds
	}

	return g.selectBooks(ctx, g.bookSelect().
		Order(goqu.I(bookOrderColumn(sort)).Asc()).
		Offset(uint(offset)).
		Limit(uint(limit)))
}

func (g bookGateway) GetByID(ctx context.Context, id int64) (core.Book, error) {
	books, err := g.selectBooks(ctx, g.bookSelect().Where(goqu.Ex{colID: id}))
	if err != nil {
		return core.Book{}, err
	}

	if len(books) == 0 {
		return core.Book{}, storage.ErrNotFound
	}

	return books[0], nil
}

func (g bookGateway) Insert(ctx context.Context, book core.Book) (int64, error) {
	insertStmt := goqu.Dialect(dialectMySQL).
		Insert(g.bookTable).
		Rows(goqu.Record{
			colTitle:  book.Title,
			colAuthor: book.Author,
			colYear:   book.Year,
		})

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return 0, errors.Join(storage.ErrBuildingQueryFailed, toSQLErr)
	}

	result, execErr := g.exec(ctx, sqlQuery)
	if execErr != nil {
		return 0, execErr
	}

	id, idErr := result.LastInsertId()
	if idErr != nil {
		return 0, errors.Join(storage.ErrExecFailed, idErr)
	}

	return id, nil
}

func (g bookGateway) Update(ctx context.Context, id int64, book core.Book) error {
	updateStmt := goqu.Dialect(dialectMySQL).
		Update(g.bookTable).
		Set(goqu.Record{
			colTitle:  book.Title,
			colAuthor: book.Author,
			colYear:   book.Year,
		}).
		Where(goqu.Ex{colID: id})

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()

	return g.execStmt(ctx, sqlQuery, toSQLErr)
}

func (g bookGateway) DeleteByID(ctx context.Context, id int64) error {
	deleteStmt := goqu.Dialect(dialectMySQL).
		Delete(g.bookTable).
		Where(goqu.Ex{colID: id})

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()

	return g.execStmt(ctx, sqlQuery, toSQLErr)
}

func (g bookGateway) FindByTitlePrefix(ctx context.Context, prefix string) ([]core.Book, error) {
	if prefix == "" {
		return []core.Book{}, nil
	}

	// LIKE BINARY keeps the match case-sensitive on case-insensitive collations.
	pattern := escapeLikePrefix(prefix) + "%"

	return g.selectBooks(ctx, g.bookSelect().
		Where(goqu.L(colTitle+" LIKE BINARY ?", pattern)).
		Order(goqu.I(colTitle).Asc()))
}

func (g bookGateway) FindByOwner(ctx context.Context, personID int64) ([]core.Book, error) {
	return g.selectBooks(ctx, g.bookSelect().
		Where(goqu.Ex{colPersonID: personID}).
		Order(goqu.I(colLentAt).Asc()))
}

func (g bookGateway) AssignOwner(ctx context.Context, bookID, personID int64, lentAt time.Time) (bool, error) {
	updateStmt := goqu.Dialect(dialectMySQL).
		Update(g.bookTable).
		Set(goqu.Record{
			colPersonID: personID,
			colLentAt:   lentAt,
		}).
		Where(goqu.Ex{colID: bookID})

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return false, errors.Join(storage.ErrBuildingQueryFailed, toSQLErr)
	}

	result, execErr := g.exec(ctx, sqlQuery)
	if execErr != nil {
		return false, execErr
	}

	rowsAffected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		return false, errors.Join(storage.ErrRowsAffectedFailed, rowsErr)
	}

	// Matched rows, not changed rows; requires clientFoundRows in the DSN.
	return rowsAffected > 0, nil
}

func (g bookGateway) ReleaseOwner(ctx context.Context, bookID int64) error {
	updateStmt := goqu.Dialect(dialectMySQL).
		Update(g.bookTable).
		Set(goqu.Record{colPersonID: nil, colLentAt: nil}).
		Where(goqu.Ex{colID: bookID})

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()

	return g.execStmt(ctx, sqlQuery, toSQLErr)
}

func (g bookGateway) ReleaseAllByOwner(ctx context.Context, personID int64) error {
	updateStmt := goqu.Dialect(dialectMySQL).
		Update(g.bookTable).
		Set(goqu.Record{colPersonID: nil, colLentAt: nil}).
		Where(goqu.Ex{colPersonID: personID})

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()

	return g.execStmt(ctx, sqlQuery, toSQLErr)
}

func (g bookGateway) bookSelect() *goqu.SelectDataset {
	return goqu.Dialect(dialectMySQL).
		From(g.bookTable).
		Select(colID, colTitle, colAuthor, colYear, colPersonID, colLentAt)
}

func (g bookGateway) selectBooks(ctx context.Context, selectStmt *goqu.SelectDataset) ([]core.Book, error) {
	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return nil, errors.Join(storage.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := g.query(ctx, sqlQuery)
	if queryErr != nil {
		return nil, queryErr
	}
	defer func() { _ = rows.Close() }()

	books := make([]core.Book, 0)

	for rows.Next() {
		var (
			book    core.Book
			ownerID sql.NullInt64
			lentAt  sql.NullTime
		)

		if scanErr := rows.Scan(&book.ID, &book.Title, &book.Author, &book.Year, &ownerID, &lentAt); scanErr != nil {
			return nil, g.scanFailed(scanErr)
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

	return books, rows.Err()
}

// personGateway implements storage.PersonGateway.
type personGateway struct {
	*Gateway
}

var _ storage.PersonGateway = personGateway{}

func (g personGateway) ListAll(ctx context.Context, sort storage.SortKey) ([]core.Person, error) {
	orderColumn := colID
	if sort == storage.SortFullName {
		orderColumn = colFullName
	}

	return g.selectPersons(ctx, g.personSelect().Order(goqu.I(orderColumn).Asc()))
}

func (g personGateway) GetByID(ctx context.Context, id int64) (core.Person, error) {
	return g.selectSinglePerson(ctx, g.personSelect().Where(goqu.Ex{colID: id}))
}

func (g personGateway) Insert(ctx context.Context, person core.Person) (int64, error) {
	insertStmt := goqu.Dialect(dialectMySQL).
		Insert(g.personTable).
		Rows(goqu.Record{
			colFullName:    person.FullName,
			colYearOfBirth: person.YearOfBirth,
		})

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return 0, errors.Join(storage.ErrBuildingQueryFailed, toSQLErr)
	}

	result, execErr := g.exec(ctx, sqlQuery)
	if execErr != nil {
		return 0, execErr
	}

	id, idErr := result.LastInsertId()
	if idErr != nil {
		return 0, errors.Join(storage.ErrExecFailed, idErr)
	}

	return id, nil
}

func (g personGateway) Update(ctx context.Context, id int64, person core.Person) error {
	updateStmt := goqu.Dialect(dialectMySQL).
		Update(g.personTable).
		Set(goqu.Record{
			colFullName:    person.FullName,
			colYearOfBirth: person.YearOfBirth,
		}).
		Where(goqu.Ex{colID: id})

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()

	return g.execStmt(ctx, sqlQuery, toSQLErr)
}

func (g personGateway) DeleteByID(ctx context.Context, id int64) error {
	deleteStmt := goqu.Dialect(dialectMySQL).
		Delete(g.personTable).
		Where(goqu.Ex{colID: id})

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()

	return g.execStmt(ctx, sqlQuery, toSQLErr)
}

func (g personGateway) FindByFullName(ctx context.Context, fullName string) (core.Person, error) {
	return g.selectSinglePerson(ctx, g.personSelect().Where(goqu.Ex{colFullName: fullName}))
}

func (g personGateway) personSelect() *goqu.SelectDataset {
	return goqu.Dialect(dialectMySQL).
		From(g.personTable).
		Select(colID, colFullName, colYearOfBirth)
}

func (g personGateway) selectPersons(ctx context.Context, selectStmt *goqu.SelectDataset) ([]core.Person, error) {
	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return nil, errors.Join(storage.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := g.query(ctx, sqlQuery)
	if queryErr != nil {
		return nil, queryErr
	}
	defer func() { _ = rows.Close() }()

	persons := make([]core.Person, 0)

	for rows.Next() {
		var person core.Person

		if scanErr := rows.Scan(&person.ID, &person.FullName, &person.YearOfBirth); scanErr != nil {
			return nil, g.scanFailed(scanErr)
		}

		persons = append(persons, person)
	}

	return persons, rows.Err()
}

func (g personGateway) selectSinglePerson(ctx context.Context, selectStmt *goqu.SelectDataset) (core.Person, error) {
	persons, err := g.selectPersons(ctx, selectStmt)
	if err != nil {
		return core.Person{}, err
	}

	if len(persons) == 0 {
		return core.Person{}, storage.ErrNotFound
	}

	return persons[0], nil
}

// execStmt executes a built write statement, discarding the affected row count.
func (g *Gateway) execStmt(ctx context.Context, sqlQuery string, toSQLErr error) error {
	if toSQLErr != nil {
		return errors.Join(storage.ErrBuildingQueryFailed, toSQLErr)
	}

	_, execErr := g.exec(ctx, sqlQuery)

	return execErr
}

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

// escapeLikePrefix escapes the SQL LIKE wildcards in a user-supplied prefix
// so the prefix is matched literally.
func escapeLikePrefix(prefix string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(prefix)
}
