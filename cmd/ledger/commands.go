package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/ledger/internal/report"
	"github.com/example/ledger/internal/timeseries"
	"github.com/example/ledger/pkg/transaction"
)

var categoryShorthands = map[string]transaction.Category{
	"i": transaction.Income,
	"e": transaction.Expense,
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the ledger file if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.store.Initialize()
		},
	}
}

type addCmd struct {
	app         *app
	date        string
	amount      string
	category    string
	description string
	now         func() time.Time
}

func newAddCmd(a *app) *cobra.Command {
	ac := &addCmd{app: a, now: time.Now}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a transaction to the ledger",
		Args:  cobra.NoArgs,
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.date, "date", "", "Transaction date (DD-MM-YYYY), defaults to today")
	cmd.Flags().StringVar(&ac.amount, "amount", "", "Amount, a non-negative decimal")
	cmd.Flags().StringVar(&ac.category, "category", "", "Income or Expense (I/E)")
	cmd.Flags().StringVar(&ac.description, "description", "", "Optional description")

	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func (ac *addCmd) run(cmd *cobra.Command, _ []string) error {
	date := strings.TrimSpace(ac.date)
	if date == "" {
		date = transaction.FormatDate(ac.now())
	}

	category := strings.TrimSpace(ac.category)
	if c, ok := categoryShorthands[strings.ToLower(category)]; ok {
		category = string(c)
	}

	tx, err := transaction.NewWithLayout(ac.app.store.Config().DateLayout, date, strings.TrimSpace(ac.amount), category, ac.description)
	if err != nil {
		return err
	}

	if err := ac.app.store.Initialize(); err != nil {
		return err
	}
	if err := ac.app.store.Append(tx); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Entry Added Successfully")
	return nil
}

type queryCmd struct {
	app   *app
	chart string
}

func newQueryCmd(a *app) *cobra.Command {
	qc := &queryCmd{app: a}
	cmd := &cobra.Command{
		Use:   "query START END",
		Short: "List transactions and totals between two dates (inclusive)",
		Args:  cobra.ExactArgs(2),
		RunE:  qc.run,
	}

	cmd.Flags().StringVar(&qc.chart, "chart", "", "Also print a series: weekly (cumulative) or daily")

	return cmd
}

func (qc *queryCmd) run(cmd *cobra.Command, args []string) error {
	switch qc.chart {
	case "", "weekly", "daily":
	default:
		return fmt.Errorf("unsupported chart %q: use weekly or daily", qc.chart)
	}

	res, err := qc.app.store.QueryRange(strings.TrimSpace(args[0]), strings.TrimSpace(args[1]))
	if err != nil {
		return err
	}

	reporter := report.NewReporter(cmd.OutOrStdout())
	if err := reporter.Result(res); err != nil {
		return err
	}
	if res.Empty() {
		return nil
	}

	switch qc.chart {
	case "weekly":
		fmt.Fprintln(cmd.OutOrStdout())
		return reporter.Weekly(timeseries.CumulativeWeekly(res.Transactions))
	case "daily":
		fmt.Fprintln(cmd.OutOrStdout())
		return reporter.Daily(timeseries.Daily(res.Transactions))
	}
	return nil
}
