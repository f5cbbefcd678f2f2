package postgresengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/libris-project/libris/core"
	"github.com/libris-project/libris/storage"
)

const (
	opListPersons      = "list_persons"
	opGetPerson        = "get_person"
	opInsertPerson     = "insert_person"
	opUpdatePerson     = "update_person"
	opDeletePerson     = "delete_person"
	opPersonByFullName = "person_by_full_name"
)

// personGateway implements storage.PersonGateway on top of the shared Gateway.
type personGateway struct {
	*Gateway
}

var _ storage.PersonGateway = personGateway{}

func (g personGateway) ListAll(ctx context.Context, sort storage.SortKey) ([]core.Person, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(g.personTable).
		Select(colID, colFullName, colYearOfBirth).
		Order(goqu.I(personOrderColumn(sort)).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return nil, g.buildQueryFailed(ctx, opListPersons, toSQLErr)
	}

	return g.queryPersons(ctx, sqlQuery, opListPersons)
}

func (g personGateway) GetByID(ctx context.Context, id int64) (core.Person, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(g.personTable).
		Select(colID, colFullName, colYearOfBirth).
		Where(goqu.Ex{colID: id})

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return core.Person{}, g.buildQueryFailed(ctx, opGetPerson, toSQLErr)
	}

	return g.querySinglePerson(ctx, sqlQuery, opGetPerson)
}

func (g personGateway) Insert(ctx context.Context, person core.Person) (int64, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(g.personTable).
		Rows(goqu.Record{
			colFullName:    person.FullName,
			colYearOfBirth: person.YearOfBirth,
		}).
		Returning(goqu.C(colID))

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return 0, g.buildQueryFailed(ctx, opInsertPerson, toSQLErr)
	}

	return g.queryReturnedID(ctx, sqlQuery, opInsertPerson)
}

func (g personGateway) Update(ctx context.Context, id int64, person core.Person) error {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(g.personTable).
		Set(goqu.Record{
			colFullName:    person.FullName,
			colYearOfBirth: person.YearOfBirth,
		}).
		Where(goqu.Ex{colID: id})

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return g.buildQueryFailed(ctx, opUpdatePerson, toSQLErr)
	}

	_, execErr := g.executeStatement(ctx, sqlQuery, opUpdatePerson)

	return execErr
}

func (g personGateway) DeleteByID(ctx context.Context, id int64) error {
	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(g.personTable).
		Where(goqu.Ex{colID: id})

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()
	if toSQLErr != nil {
		return g.buildQueryFailed(ctx, opDeletePerson, toSQLErr)
	}

	_, execErr := g.executeStatement(ctx, sqlQuery, opDeletePerson)

	return execErr
}

func (g personGateway) FindByFullName(ctx context.Context, fullName string) (core.Person, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(g.personTable).
		Select(colID, colFullName, colYearOfBirth).
		Where(goqu.Ex{colFullName: fullName})

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return core.Person{}, g.buildQueryFailed(ctx, opPersonByFullName, toSQLErr)
	}

	return g.querySinglePerson(ctx, sqlQuery, opPersonByFullName)
}

// queryPersons executes a person select and decodes the result rows.
func (g personGateway) queryPersons(ctx context.Context, sqlQuery sqlQueryString, operation string) ([]core.Person, error) {
	rows, queryErr := g.executeQuery(ctx, sqlQuery, operation)
	if queryErr != nil {
		return nil, queryErr
	}
	defer g.closeRows(ctx, rows)

	persons := make([]core.Person, 0)

	for rows.Next() {
		var person core.Person

		if scanErr := rows.Scan(&person.ID, &person.FullName, &person.YearOfBirth); scanErr != nil {
			g.logError(ctx, logMsgScanRowFailed, scanErr)
			g.recordErrorMetrics(ctx, operation, errorTypeScan)

			return nil, errors.Join(storage.ErrScanningRowFailed, scanErr)
		}

		persons = append(persons, person)
	}

	// A failure mid-iteration surfaces here, not from Next.
	if rowsErr := rows.Err(); rowsErr != nil {
		g.logError(ctx, logMsgDBQueryFailed, rowsErr)
		g.recordErrorMetrics(ctx, operation, errorTypeQuery)

		return nil, errors.Join(storage.ErrQueryFailed, rowsErr)
	}

	g.logOperation(ctx, operation, logAttrRecordCount, len(persons))

	return persons, nil
}

// querySinglePerson executes a person select expected to match at most one record.
func (g personGateway) querySinglePerson(ctx context.Context, sqlQuery sqlQueryString, operation string) (core.Person, error) {
	persons, queryErr := g.queryPersons(ctx, sqlQuery, operation)
	if queryErr != nil {
		return core.Person{}, queryErr
	}

	if len(persons) == 0 {
		return core.Person{}, storage.ErrNotFound
	}

	return persons[0], nil
}

// personOrderColumn maps a sort key to the column the listing is ordered by.
func personOrderColumn(sort storage.SortKey) string {
	if sort == storage.SortFullName {
		return colFullName
	}

	return colID
}
