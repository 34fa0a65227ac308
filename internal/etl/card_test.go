package etl

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finwarehouse/internal/testutil"
)

func TestLoadCardsDropsCardsWithoutOwner(t *testing.T) {
	src, srcMock := testutil.MockDB(t)
	wh, whMock := testutil.MockDB(t)

	srcMock.ExpectQuery("FROM card c").WillReturnRows(
		sqlmock.NewRows([]string{"card_id", "type", "newissued", "account_id"}).
			AddRow(5, "gold", "1996-05-01", 1).
			AddRow(6, nil, nil, 99)) // account 99 has no OWNER-linked dimension row

	whMock.ExpectBegin()
	whMock.ExpectExec("INSERT INTO DimCard").
		WithArgs(5, 100, 8, "gold").
		WillReturnResult(sqlmock.NewResult(0, 1))
	whMock.ExpectCommit()

	dates := DateMap{"1996-05-01": 8}
	accounts := AccountMap{1: 100}

	result, err := LoadCards(context.Background(), src, wh, dates, accounts)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Loaded)
	assert.Equal(t, 1, result.Dropped)

	testutil.ExpectationsMet(t, srcMock)
	testutil.ExpectationsMet(t, whMock)
}

func TestLoadCardsDefaultsTypeAndDate(t *testing.T) {
	src, srcMock := testutil.MockDB(t)
	wh, whMock := testutil.MockDB(t)

	srcMock.ExpectQuery("FROM card c").WillReturnRows(
		sqlmock.NewRows([]string{"card_id", "type", "newissued", "account_id"}).
			AddRow(7, nil, "not-a-date", 2))

	whMock.ExpectBegin()
	whMock.ExpectExec("INSERT INTO DimCard").
		WithArgs(7, 200, 1, "UNKNOWN").
		WillReturnResult(sqlmock.NewResult(0, 1))
	whMock.ExpectCommit()

	result, err := LoadCards(context.Background(), src, wh, DateMap{}, AccountMap{2: 200})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Loaded)

	testutil.ExpectationsMet(t, whMock)
}
