// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"errors"

	"fjacquet/expense-insights/internal/container"
	"fjacquet/expense-insights/internal/pipeline"
)

// ErrNotInitialized is returned when a command runs before the root setup wired the container.
var ErrNotInitialized = errors.New("application not initialized")

// Analyze runs the pipeline on the configured input file.
func Analyze(ctx context.Context, c *container.Container) (*pipeline.Result, error) {
	if c == nil {
		return nil, ErrNotInitialized
	}
	return c.GetAnalyzer().Run(ctx, pipeline.Options{InputPath: c.GetConfig().Data.InputFile})
}
