package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/ledger/pkg/transaction"
)

// Summary holds the totals of a filtered view.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	NetSavings   decimal.Decimal
}

// Result is the outcome of a range query.
type Result struct {
	Start        time.Time
	End          time.Time
	Transactions transaction.List
	Summary      Summary
}

// Empty reports whether no transaction fell inside the range.
func (r Result) Empty() bool {
	return len(r.Transactions) == 0
}

// QueryRange returns the transactions dated between start and end inclusive,
// in file order, with their totals. Both bounds use the store date layout.
// A start after end is not an error; it matches nothing.
func (s *Store) QueryRange(start, end string) (Result, error) {
	from, err := transaction.ParseDateLayout(s.cfg.DateLayout, start)
	if err != nil {
		return Result{}, err
	}
	to, err := transaction.ParseDateLayout(s.cfg.DateLayout, end)
	if err != nil {
		return Result{}, err
	}

	all, err := s.LoadAll()
	if err != nil {
		return Result{}, err
	}

	view := Filter(all, from, to)
	s.logger.Debug().
		Str("start", start).
		Str("end", end).
		Int("matched", len(view)).
		Msg("range query")

	return Result{
		Start:        from,
		End:          to,
		Transactions: view,
		Summary:      Summarize(view),
	}, nil
}

// Filter keeps the transactions with from <= date <= to, preserving order.
func Filter(list transaction.List, from, to time.Time) transaction.List {
	from, to = transaction.Day(from), transaction.Day(to)
	view := transaction.List{}
	for _, tx := range list {
		d := transaction.Day(tx.Date)
		if d.Before(from) || d.After(to) {
			continue
		}
		view = append(view, tx)
	}
	return view
}

// Summarize totals income and expense over list.
func Summarize(list transaction.List) Summary {
	income := list.ByCategory(transaction.Income).Total()
	expense := list.ByCategory(transaction.Expense).Total()
	return Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		NetSavings:   income.Sub(expense),
	}
}
