package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ledger/internal/ledger"
	"github.com/example/ledger/internal/timeseries"
	"github.com/example/ledger/pkg/transaction"
)

func TestReporter_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf).Result(ledger.Result{}))
	assert.Equal(t, NoTransactions+"\n", buf.String())
}

func TestReporter_Result(t *testing.T) {
	list := transaction.List{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(100), Category: transaction.Income, Description: "salary"},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("130.5"), Category: transaction.Expense, Description: "rent"},
	}
	res := ledger.Result{
		Start:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:          time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Transactions: list,
		Summary:      ledger.Summarize(list),
	}

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf).Result(res))

	out := buf.String()
	assert.Contains(t, out, "Transactions from 01-01-2024 TO 31-01-2024")
	assert.Contains(t, out, "02-01-2024")
	assert.Contains(t, out, "130.50")
	assert.Contains(t, out, "salary")
	assert.Contains(t, out, "Total Income: $100.00")
	assert.Contains(t, out, "Total Expense: $130.50")
	assert.Contains(t, out, "Net Savings: $-30.50")
}

func TestReporter_Weekly(t *testing.T) {
	w := timeseries.Weekly{
		Weeks:      []time.Time{time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)},
		Income:     []decimal.NullDecimal{decimal.NewNullDecimal(decimal.NewFromInt(10))},
		Expense:    []decimal.NullDecimal{{}},
		NetSavings: []decimal.NullDecimal{{}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf).Weekly(w))
	assert.Contains(t, buf.String(), "07-01-2024")
	assert.Contains(t, buf.String(), "10.00")
	assert.Contains(t, buf.String(), " -")
}

func TestReporter_Daily(t *testing.T) {
	d := timeseries.DailyLevels{
		Days:    []time.Time{time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)},
		Income:  []decimal.Decimal{decimal.Zero},
		Expense: []decimal.Decimal{decimal.NewFromInt(20)},
	}

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf).Daily(d))
	assert.Contains(t, buf.String(), "07-01-2024")
	assert.Contains(t, buf.String(), "0.00")
	assert.Contains(t, buf.String(), "20.00")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "a b", truncate("a\nb", 5))
}
