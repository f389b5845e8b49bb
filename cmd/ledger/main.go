package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/example/ledger/internal/config"
	"github.com/example/ledger/internal/ledger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = newRootCmd()

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfgPath string
	logger  zerolog.Logger
	store   *ledger.Store
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Record income and expenses and summarize them by date range",
		Long: `Ledger keeps dated income and expense transactions in a flat CSV file,
reports totals over an inclusive date range and prints weekly cumulative or
daily series for charting. Dates are always DD-MM-YYYY.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Path to a TOML config file")

	cmd.AddCommand(newInitCmd(a))
	cmd.AddCommand(newAddCmd(a))
	cmd.AddCommand(newQueryCmd(a))

	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	// A missing .env file is normal.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(a.cfgPath)
	if err != nil {
		return err
	}

	a.logger = newLogger(cfg.Log, cmd.ErrOrStderr())
	a.store = ledger.NewStore(cfg.Ledger(), ledger.WithLogger(a.logger))
	return nil
}

func newLogger(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}

	if cfg.Format == "json" {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: true}).
		Level(level).With().Timestamp().Logger()
}
