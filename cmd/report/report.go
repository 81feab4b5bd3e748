// Package report implements the command that prints an analysis report.
package report

import (
	"fmt"

	"fjacquet/expense-insights/cmd/common"
	"fjacquet/expense-insights/cmd/root"
	"fjacquet/expense-insights/internal/logging"
	"fjacquet/expense-insights/internal/validation"

	"github.com/spf13/cobra"
)

var (
	format string
	charts bool
)

// Cmd analyzes the transaction sheet once and prints the result.
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Print an analysis report (json, yaml or text)",
	Long: `Analyze the transaction sheet once and print totals, monthly summaries, the savings
forecast and suspicious transactions. With --charts the PNG charts are also written to
the output directory.`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", "text", "Report format: json, yaml or text")
	Cmd.Flags().BoolVar(&charts, "charts", false, "Also write the charts to the output directory")
}

func run(cmd *cobra.Command, args []string) error {
	if err := validation.ReportFormat(format); err != nil {
		return err
	}
	c := root.AppContainer
	if c != nil {
		if err := validation.InputFile(c.GetConfig().Data.InputFile); err != nil {
			return err
		}
	}
	res, err := common.Analyze(cmd.Context(), c)
	if err != nil {
		return err
	}

	var written []string
	if charts {
		set, failures := c.GetRenderer().RenderAll(res)
		for name, ferr := range failures {
			root.Log.WithError(ferr).Warn("Chart skipped", logging.F(logging.FieldChart, name))
		}
		written, err = set.WriteTo(c.GetConfig().Output.Directory, "")
		if err != nil {
			return err
		}
	}

	out, err := c.GetReportGenerator().Generate(res, format, written)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
