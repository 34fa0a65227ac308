package etl

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finwarehouse/internal/testutil"
	"finwarehouse/pkg/errors"
)

func TestLoadDates(t *testing.T) {
	src, srcMock := testutil.MockDB(t)
	wh, whMock := testutil.MockDB(t)

	srcMock.ExpectQuery("SELECT DISTINCT newdate").WillReturnRows(
		sqlmock.NewRows([]string{"date"}).
			AddRow("19950324").
			AddRow("1995-06-10").
			AddRow("bogus").
			AddRow("1996-01-05"))

	whMock.ExpectBegin()
	whMock.ExpectExec("INSERT INTO DimDate").
		WithArgs(
			1, "1995-03-24", 1, 1995, 3, 24,
			2, "1995-06-10", 2, 1995, 6, 10,
			3, "1996-01-05", 1, 1996, 1, 5,
		).
		WillReturnResult(sqlmock.NewResult(0, 3))
	whMock.ExpectCommit()

	result, dates, err := LoadDates(context.Background(), src, wh)
	require.NoError(t, err)

	assert.Equal(t, "DimDate", result.Table)
	assert.Equal(t, 3, result.Loaded)
	assert.Equal(t, 1, result.Dropped, "unparseable date should be skipped, not fatal")
	assert.Equal(t, DateMap{"1995-03-24": 1, "1995-06-10": 2, "1996-01-05": 3}, dates)

	testutil.ExpectationsMet(t, srcMock)
	testutil.ExpectationsMet(t, whMock)
}

func TestLoadDatesSurrogatesAscending(t *testing.T) {
	src, srcMock := testutil.MockDB(t)
	wh, whMock := testutil.MockDB(t)

	rows := sqlmock.NewRows([]string{"date"})
	for month := 1; month <= 12; month++ {
		rows.AddRow(fmt.Sprintf("1996-%02d-01", month))
	}
	srcMock.ExpectQuery("SELECT DISTINCT newdate").WillReturnRows(rows)

	whMock.ExpectBegin()
	whMock.ExpectExec("INSERT INTO DimDate").WillReturnResult(sqlmock.NewResult(0, 12))
	whMock.ExpectCommit()

	_, dates, err := LoadDates(context.Background(), src, wh)
	require.NoError(t, err)

	// Surrogate ids follow the sorted date order handed back by the source
	for month := 1; month <= 12; month++ {
		assert.Equal(t, month, dates[fmt.Sprintf("1996-%02d-01", month)])
	}
}

func TestLoadDatesInsertFailureRollsBack(t *testing.T) {
	src, srcMock := testutil.MockDB(t)
	wh, whMock := testutil.MockDB(t)

	srcMock.ExpectQuery("SELECT DISTINCT newdate").WillReturnRows(
		sqlmock.NewRows([]string{"date"}).AddRow("1995-03-24"))

	whMock.ExpectBegin()
	whMock.ExpectExec("INSERT INTO DimDate").WillReturnError(fmt.Errorf("table gone"))
	whMock.ExpectRollback()

	_, _, err := LoadDates(context.Background(), src, wh)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeLoadInsertFailed, errors.GetErrorCode(err))

	testutil.ExpectationsMet(t, whMock)
}

func TestLoadDatesExtractFailure(t *testing.T) {
	src, srcMock := testutil.MockDB(t)
	wh, _ := testutil.MockDB(t)

	srcMock.ExpectQuery("SELECT DISTINCT newdate").WillReturnError(fmt.Errorf("source down"))

	_, _, err := LoadDates(context.Background(), src, wh)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeExtractQueryFailed, errors.GetErrorCode(err))
}
