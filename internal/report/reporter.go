package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/example/ledger/internal/ledger"
	"github.com/example/ledger/internal/timeseries"
	"github.com/example/ledger/pkg/transaction"
)

// NoTransactions is printed for a range query that matched nothing.
const NoTransactions = "No transactions found in the specified date range."

type TableConfig struct {
	DateWidth        int
	AmountWidth      int
	CategoryWidth    int
	DescriptionWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		DateWidth:        10,
		AmountWidth:      12,
		CategoryWidth:    8,
		DescriptionWidth: 40,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

// Result prints the matched transactions followed by the summary.
func (r *Reporter) Result(res ledger.Result) error {
	if res.Empty() {
		_, err := fmt.Fprintln(r.writer, NoTransactions)
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Transactions from %s TO %s\n",
		transaction.FormatDate(res.Start), transaction.FormatDate(res.End))
	b.WriteString(r.separator() + "\n")
	b.WriteString(r.row("date", "amount", "category", "description") + "\n")
	b.WriteString(r.separator() + "\n")
	for _, tx := range res.Transactions {
		b.WriteString(r.row(
			transaction.FormatDate(tx.Date),
			tx.Amount.StringFixed(2),
			string(tx.Category),
			tx.Description,
		) + "\n")
	}
	b.WriteString(r.separator() + "\n")

	fmt.Fprintf(&b, "\nSummary:\n")
	fmt.Fprintf(&b, "Total Income: %s\n", money(res.Summary.TotalIncome))
	fmt.Fprintf(&b, "Total Expense: %s\n", money(res.Summary.TotalExpense))
	fmt.Fprintf(&b, "Net Savings: %s\n", money(res.Summary.NetSavings))

	_, err := io.WriteString(r.writer, b.String())
	return err
}

// Weekly prints the cumulative weekly series. Weeks with nothing accumulated
// yet are shown as "-".
func (r *Reporter) Weekly(w timeseries.Weekly) error {
	var b strings.Builder
	b.WriteString("Cumulative Income vs. Expenses Over Time\n")
	fmt.Fprintf(&b, "%-*s  %*s  %*s  %*s\n",
		r.config.DateWidth, "week",
		r.config.AmountWidth, "income",
		r.config.AmountWidth, "expense",
		r.config.AmountWidth, "net")
	for i, week := range w.Weeks {
		fmt.Fprintf(&b, "%-*s  %*s  %*s  %*s\n",
			r.config.DateWidth, transaction.FormatDate(week),
			r.config.AmountWidth, nullable(w.Income[i]),
			r.config.AmountWidth, nullable(w.Expense[i]),
			r.config.AmountWidth, nullable(w.NetSavings[i]))
	}
	_, err := io.WriteString(r.writer, b.String())
	return err
}

// Daily prints the per-day income and expense levels.
func (r *Reporter) Daily(d timeseries.DailyLevels) error {
	var b strings.Builder
	b.WriteString("Income vs. Expense Over Time\n")
	fmt.Fprintf(&b, "%-*s  %*s  %*s\n",
		r.config.DateWidth, "date",
		r.config.AmountWidth, "income",
		r.config.AmountWidth, "expense")
	for i, day := range d.Days {
		fmt.Fprintf(&b, "%-*s  %*s  %*s\n",
			r.config.DateWidth, transaction.FormatDate(day),
			r.config.AmountWidth, d.Income[i].StringFixed(2),
			r.config.AmountWidth, d.Expense[i].StringFixed(2))
	}
	_, err := io.WriteString(r.writer, b.String())
	return err
}

func (r *Reporter) row(date, amount, category, description string) string {
	return fmt.Sprintf("| %-*s | %*s | %-*s | %-*s |",
		r.config.DateWidth, date,
		r.config.AmountWidth, amount,
		r.config.CategoryWidth, category,
		r.config.DescriptionWidth, truncate(description, r.config.DescriptionWidth))
}

func (r *Reporter) separator() string {
	return fmt.Sprintf("+%s+%s+%s+%s+",
		strings.Repeat("-", r.config.DateWidth+2),
		strings.Repeat("-", r.config.AmountWidth+2),
		strings.Repeat("-", r.config.CategoryWidth+2),
		strings.Repeat("-", r.config.DescriptionWidth+2))
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func nullable(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
