// Package serve implements the dashboard server command.
package serve

import (
	"fjacquet/expense-insights/cmd/common"
	"fjacquet/expense-insights/cmd/root"
	"fjacquet/expense-insights/internal/logging"
	"fjacquet/expense-insights/internal/validation"

	"github.com/spf13/cobra"
)

var addr string

// Cmd starts the web dashboard.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the expense dashboard over HTTP",
	Long: `Serve the expense dashboard. Every request to / re-reads the transaction sheet,
recomputes all summaries and renders the charts inline.`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.addr")
}

func run(cmd *cobra.Command, args []string) error {
	c := root.AppContainer
	if c == nil {
		return common.ErrNotInitialized
	}
	// The sheet is re-read per request, so a missing file is only reported.
	if err := validation.InputFile(c.GetConfig().Data.InputFile); err != nil {
		root.Log.WithError(err).Warn("Input file not usable yet", logging.F(logging.FieldFile, c.GetConfig().Data.InputFile))
	}
	listen := addr
	if listen == "" {
		listen = c.GetConfig().Server.Addr
	}
	defer func() {
		if err := c.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close container")
		}
	}()
	return c.NewWebAPI(listen).Start(cmd.Context())
}
