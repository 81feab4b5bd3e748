// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/expense-insights/internal/config"
	"fjacquet/expense-insights/internal/container"
	"fjacquet/expense-insights/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags shared by every command
type CommonFlags struct {
	Input      string
	Output     string
	ConfigFile string
	LogLevel   string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer is wired by PersistentPreRunE before any subcommand runs
	AppContainer *container.Container

	// SharedFlags holds the persistent flag values
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "expense-insights",
		Short: "Analyze a bank-transaction sheet: summaries, savings forecast and suspicious transactions.",
		Long: `expense-insights reads a bank-transaction spreadsheet (.xlsx or .csv with the columns
Date, Debit/Credit, Category and Income/Expense) and derives income and expense totals,
monthly net savings, category breakdowns, a 6-month net-savings forecast and a list of
suspicious transactions. Results are served as a dashboard or printed as a report.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Init registers the persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Transaction sheet (.xlsx or .csv), overrides data.input_file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Chart output directory, overrides output.directory")
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: $HOME/.expense-insights/config.yaml or ./config.yaml)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

// ApplyFlags overrides configuration values with explicitly set flags.
func ApplyFlags(cfg *config.Config, flags CommonFlags) {
	if flags.Input != "" {
		cfg.Data.InputFile = flags.Input
	}
	if flags.Output != "" {
		cfg.Output.Directory = flags.Output
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(SharedFlags.ConfigFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	ApplyFlags(cfg, SharedFlags)

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	AppContainer = c
	Log = c.GetLogger()

	Log.Debug("Configuration loaded",
		logging.F(logging.FieldFile, cfg.Data.InputFile),
		logging.F(logging.FieldOperation, cmd.Name()))
	return nil
}
