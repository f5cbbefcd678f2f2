package postgresengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libris-project/libris/storage"
	"github.com/libris-project/libris/storage/postgresengine"
)

func Test_NewGatewayFromPGXPool_When_TheConnectionIsNil(t *testing.T) {
	// act
	_, err := postgresengine.NewGatewayFromPGXPool(nil)

	// assert
	assert.ErrorIs(t, err, storage.ErrNilDatabaseConnection)
}

func Test_NewGatewayFromSQLDB_When_TheConnectionIsNil(t *testing.T) {
	// act
	_, err := postgresengine.NewGatewayFromSQLDB(nil)

	// assert
	assert.ErrorIs(t, err, storage.ErrNilDatabaseConnection)
}

func Test_NewGatewayFromSQLX_When_TheConnectionIsNil(t *testing.T) {
	// act
	_, err := postgresengine.NewGatewayFromSQLX(nil)

	// assert
	assert.ErrorIs(t, err, storage.ErrNilDatabaseConnection)
}

func Test_WithTableNames_When_ATableNameIsEmpty(t *testing.T) {
	// act
	bookErr := postgresengine.WithTableNames("", "person")(&postgresengine.Gateway{})
	personErr := postgresengine.WithTableNames("book", "")(&postgresengine.Gateway{})

	// assert
	assert.ErrorIs(t, bookErr, storage.ErrEmptyTableName)
	assert.ErrorIs(t, personErr, storage.ErrEmptyTableName)
}
