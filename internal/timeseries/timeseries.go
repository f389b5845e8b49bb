// Package timeseries resamples a filtered set of transactions onto regular
// calendar grids for charting.
//
// Two views are produced and they fill gaps differently:
//
//   - CumulativeWeekly carries the last running total forward across weeks
//     with no activity. Weeks before a category's first transaction have no
//     value at all.
//   - Daily reports per-day totals on the dates that had any transaction;
//     a category with no activity on such a date reports zero.
package timeseries

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/ledger/pkg/transaction"
)

// WeekEnd is the weekday that closes a weekly bucket.
const WeekEnd = time.Sunday

// Weekly holds cumulative income, expense and net savings aligned on the
// same week-ending dates. A value is invalid where nothing has accumulated
// yet.
type Weekly struct {
	Weeks      []time.Time
	Income     []decimal.NullDecimal
	Expense    []decimal.NullDecimal
	NetSavings []decimal.NullDecimal
}

// Len returns the number of weeks on the grid.
func (w Weekly) Len() int { return len(w.Weeks) }

// DailyLevels holds per-day income and expense totals aligned on the
// distinct transaction dates.
type DailyLevels struct {
	Days    []time.Time
	Income  []decimal.Decimal
	Expense []decimal.Decimal
}

// Len returns the number of days on the grid.
func (d DailyLevels) Len() int { return len(d.Days) }

// WeekEnding returns the last day of the week containing t.
func WeekEnding(t time.Time) time.Time {
	d := transaction.Day(t)
	return d.AddDate(0, 0, (int(WeekEnd)-int(d.Weekday())+7)%7)
}

// CumulativeWeekly buckets view by week, accumulates each category in
// chronological order and aligns both categories on every week from the
// week of the earliest transaction to the week of the latest one.
//
// The grid ends at WeekEnding(latest), so the partial week holding the latest
// transaction is included. A grid of only the Sundays on or before the latest
// date would drop it.
func CumulativeWeekly(view transaction.List) Weekly {
	first, last, ok := view.Span()
	if !ok {
		return Weekly{}
	}

	var weeks []time.Time
	for w, end := WeekEnding(first), WeekEnding(last); !w.After(end); w = w.AddDate(0, 0, 7) {
		weeks = append(weeks, w)
	}

	income := cumulative(weeks, weeklySums(view.ByCategory(transaction.Income)))
	expense := cumulative(weeks, weeklySums(view.ByCategory(transaction.Expense)))

	net := make([]decimal.NullDecimal, len(weeks))
	for i := range weeks {
		if income[i].Valid && expense[i].Valid {
			net[i] = decimal.NewNullDecimal(income[i].Decimal.Sub(expense[i].Decimal))
		}
	}

	return Weekly{Weeks: weeks, Income: income, Expense: expense, NetSavings: net}
}

func weeklySums(list transaction.List) map[time.Time]decimal.Decimal {
	sums := make(map[time.Time]decimal.Decimal)
	for _, tx := range list {
		w := WeekEnding(tx.Date)
		sums[w] = sums[w].Add(tx.Amount)
	}
	return sums
}

// cumulative forward-fills the running total across weeks with no bucket.
func cumulative(weeks []time.Time, sums map[time.Time]decimal.Decimal) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(weeks))
	running := decimal.Zero
	started := false
	for i, w := range weeks {
		if sum, ok := sums[w]; ok {
			running = running.Add(sum)
			started = true
		}
		if started {
			out[i] = decimal.NewNullDecimal(running)
		}
	}
	return out
}

// Daily sums each category per day on the distinct dates present in view.
// A category without activity on one of those dates gets zero there.
func Daily(view transaction.List) DailyLevels {
	days := view.Dates()
	if len(days) == 0 {
		return DailyLevels{}
	}

	return DailyLevels{
		Days:    days,
		Income:  levels(days, dailySums(view.ByCategory(transaction.Income))),
		Expense: levels(days, dailySums(view.ByCategory(transaction.Expense))),
	}
}

func dailySums(list transaction.List) map[time.Time]decimal.Decimal {
	sums := make(map[time.Time]decimal.Decimal)
	for _, tx := range list {
		d := transaction.Day(tx.Date)
		sums[d] = sums[d].Add(tx.Amount)
	}
	return sums
}

func levels(days []time.Time, sums map[time.Time]decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(days))
	for i, d := range days {
		if v, ok := sums[d]; ok {
			out[i] = v
		} else {
			out[i] = decimal.Zero
		}
	}
	return out
}
