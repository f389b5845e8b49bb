package transaction

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the DD-MM-YYYY layout used for every date read or written.
const DateLayout = "02-01-2006"

// Category carries the direction of a transaction.
type Category string

const (
	Income  Category = "Income"
	Expense Category = "Expense"
)

var (
	// ErrParse is returned when a date or amount does not match its format.
	ErrParse = errors.New("parse error")
	// ErrValidation is returned when a well-formed value is out of range.
	ErrValidation = errors.New("validation error")
)

// Transaction represents a single dated income or expense entry
type Transaction struct {
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
	Description string          `json:"description"`
}

// New builds a transaction from raw text fields and validates it.
func New(date, amount, category, description string) (Transaction, error) {
	return NewWithLayout(DateLayout, date, amount, category, description)
}

// NewWithLayout is New with an explicit date layout.
func NewWithLayout(layout, date, amount, category, description string) (Transaction, error) {
	d, err := ParseDateLayout(layout, date)
	if err != nil {
		return Transaction{}, err
	}
	a, err := ParseAmount(amount)
	if err != nil {
		return Transaction{}, err
	}
	c, err := ParseCategory(category)
	if err != nil {
		return Transaction{}, err
	}
	tx := Transaction{Date: d, Amount: a, Category: c, Description: description}
	return tx, tx.Validate()
}

// Validate checks the invariants a transaction must hold before it is stored.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("%w: amount %s is negative", ErrValidation, t.Amount)
	}
	if !t.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, t.Category)
	}
	// CSV readers fold \r\n to \n, so a carriage return would not survive a reload.
	if strings.ContainsRune(t.Description, '\r') {
		return fmt.Errorf("%w: description contains a carriage return", ErrValidation)
	}
	return nil
}

// Valid reports whether c is Income or Expense.
func (c Category) Valid() bool {
	return c == Income || c == Expense
}

// ParseCategory accepts exactly "Income" or "Expense".
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrValidation, s)
	}
	return c, nil
}

// ParseAmount parses a non-negative decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", ErrParse, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount %s is negative", ErrValidation, s)
	}
	return d, nil
}

// ParseDate parses s under DateLayout.
func ParseDate(s string) (time.Time, error) {
	return ParseDateLayout(DateLayout, s)
}

// ParseDateLayout parses s under layout and truncates it to a UTC calendar day.
func ParseDateLayout(layout, s string) (time.Time, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q does not match %s", ErrParse, s, layout)
	}
	return Day(t), nil
}

// FormatDate renders t under DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Day strips the time of day from t.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// List is an ordered sequence of transactions.
type List []Transaction

// ByCategory returns all transactions matching the given category, in order
func (l List) ByCategory(category Category) List {
	var filtered List
	for _, t := range l {
		if t.Category == category {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// Total sums the amounts of every transaction in the list.
func (l List) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range l {
		sum = sum.Add(t.Amount)
	}
	return sum
}

// Dates returns the distinct dates present in the list, ascending.
func (l List) Dates() []time.Time {
	seen := make(map[time.Time]struct{}, len(l))
	var dates []time.Time
	for _, t := range l {
		d := Day(t.Date)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Span returns the earliest and latest dates in the list. ok is false for an empty list.
func (l List) Span() (first, last time.Time, ok bool) {
	for i, t := range l {
		d := Day(t.Date)
		if i == 0 || d.Before(first) {
			first = d
		}
		if i == 0 || d.After(last) {
			last = d
		}
	}
	return first, last, len(l) > 0
}
