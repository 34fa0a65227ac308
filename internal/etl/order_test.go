package etl

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finwarehouse/internal/testutil"
)

func TestLoadOrders(t *testing.T) {
	src, srcMock := testutil.MockDB(t)
	wh, whMock := testutil.MockDB(t)

	srcMock.ExpectQuery("FROM orders").WillReturnRows(
		sqlmock.NewRows([]string{"order_id", "account_id", "bank_to", "account_to", "amount", "k_symbol"}).
			AddRow(300, 1, "YZ", "87144583", 2452.0, "SIPO").
			AddRow(301, 99, "ST", "89597016", 3372.7, "UVER"). // no owner row, dropped
			AddRow(302, 1, nil, nil, nil, nil))

	whMock.ExpectBegin()
	whMock.ExpectExec("INSERT INTO FactOrder").
		WithArgs(
			300, 55, 87144583, 2452.0, "YZ", "SIPO",
			302, 55, 0, 0.0, "", "",
		).
		WillReturnResult(sqlmock.NewResult(0, 2))
	whMock.ExpectCommit()

	result, err := LoadOrders(context.Background(), src, wh, AccountMap{1: 55})
	require.NoError(t, err)

	assert.Equal(t, "FactOrder", result.Table)
	assert.Equal(t, 2, result.Loaded)
	assert.Equal(t, 1, result.Dropped)

	testutil.ExpectationsMet(t, srcMock)
	testutil.ExpectationsMet(t, whMock)
}

func TestLoadOrdersStandaloneRebuildsAccountMap(t *testing.T) {
	src, srcMock := testutil.MockDB(t)
	wh, whMock := testutil.MockDB(t)

	whMock.ExpectQuery("SELECT account_id, clientAcc_id FROM DimClientAccount").WillReturnRows(
		sqlmock.NewRows([]string{"account_id", "clientAcc_id"}).AddRow(1, 55))

	srcMock.ExpectQuery("FROM orders").WillReturnRows(
		sqlmock.NewRows([]string{"order_id", "account_id", "bank_to", "account_to", "amount", "k_symbol"}).
			AddRow(300, 1, "YZ", "87144583", 2452.0, "SIPO"))

	whMock.ExpectBegin()
	whMock.ExpectExec("INSERT INTO FactOrder").
		WithArgs(300, 55, 87144583, 2452.0, "YZ", "SIPO").
		WillReturnResult(sqlmock.NewResult(0, 1))
	whMock.ExpectCommit()

	result, err := LoadOrders(context.Background(), src, wh, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Loaded)

	testutil.ExpectationsMet(t, whMock)
}
