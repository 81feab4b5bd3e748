package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonth_Arithmetic(t *testing.T) {
	nov := Month{Year: 2023, Month: time.November}

	assert.Equal(t, "2023-11", nov.String())
	assert.Equal(t, Month{Year: 2023, Month: time.December}, nov.Next())
	assert.Equal(t, Month{Year: 2024, Month: time.January}, nov.AddMonths(2))
	assert.Equal(t, Month{Year: 2023, Month: time.February}, nov.AddMonths(-9))
	assert.Equal(t, 14, nov.MonthsBetween(Month{Year: 2025, Month: time.January}))

	assert.True(t, nov.Before(nov.Next()))
	assert.False(t, nov.Next().Before(nov))
	assert.False(t, nov.Before(nov))
}

func TestMonthOf_IgnoresDay(t *testing.T) {
	a := MonthOf(time.Date(2024, time.January, 31, 23, 59, 0, 0, time.UTC))
	b := MonthOf(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, a, b)
	assert.Equal(t, Month{Year: 2024, Month: time.February}, a.Next(), "Next never skips short months")
}

func TestMonth_TextRoundTrip(t *testing.T) {
	m, err := ParseMonth("2024-07")
	require.NoError(t, err)

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `"2024-07"`, string(out))

	var back Month
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, m, back)

	_, err = ParseMonth("July")
	assert.Error(t, err)
}

func TestTable_MonthsAndFilter(t *testing.T) {
	table := Table{
		{Date: time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), Type: TypeIncome},
		{Date: time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)},
	}

	assert.Equal(t, []Month{{Year: 2024, Month: time.January}, {Year: 2024, Month: time.March}}, table.Months())
	assert.Len(t, table.Filter(Transaction.IsIncome), 1)
	assert.Empty(t, Table{}.Months())
}
