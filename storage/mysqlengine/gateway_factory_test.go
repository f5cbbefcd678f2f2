package mysqlengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libris-project/libris/storage"
	"github.com/libris-project/libris/storage/mysqlengine"
)

func Test_NewGatewayFromSQLDB_When_TheConnectionIsNil(t *testing.T) {
	// act
	_, err := mysqlengine.NewGatewayFromSQLDB(nil)

	// assert
	assert.ErrorIs(t, err, storage.ErrNilDatabaseConnection)
}

func Test_WithTableNames_When_ATableNameIsEmpty(t *testing.T) {
	// act
	bookErr := mysqlengine.WithTableNames("", "person")(&mysqlengine.Gateway{})
	personErr := mysqlengine.WithTableNames("book", "")(&mysqlengine.Gateway{})

	// assert
	assert.ErrorIs(t, bookErr, storage.ErrEmptyTableName)
	assert.ErrorIs(t, personErr, storage.ErrEmptyTableName)
}
