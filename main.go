package main

import (
	"context"
	"fmt"
	"os"

	"fjacquet/expense-insights/cmd/report"
	"fjacquet/expense-insights/cmd/root"
	"fjacquet/expense-insights/cmd/serve"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(serve.Cmd)
	root.Cmd.AddCommand(report.Cmd)
}

func main() {
	if err := root.Cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
