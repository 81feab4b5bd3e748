// Package container provides dependency injection for the expense-insights application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"time"

	"fjacquet/expense-insights/internal/anomaly"
	"fjacquet/expense-insights/internal/config"
	"fjacquet/expense-insights/internal/forecast"
	"fjacquet/expense-insights/internal/loader"
	"fjacquet/expense-insights/internal/logging"
	"fjacquet/expense-insights/internal/pipeline"
	"fjacquet/expense-insights/internal/render"
	"fjacquet/expense-insights/internal/report"
	"fjacquet/expense-insights/internal/server"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	loader    *loader.Loader
	analyzer  *pipeline.Analyzer
	renderer  *render.Renderer
	generator *report.Generator
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger wires the dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	l := loader.NewLoader(logger, cfg.Data.Sheet)
	detector := anomaly.NewDetector(logger, anomaly.Options{
		Trees:             cfg.Anomaly.Trees,
		Seed:              cfg.Anomaly.Seed,
		RollingZThreshold: cfg.Anomaly.RollingZThreshold,
	})
	analyzer := pipeline.NewAnalyzer(logger, l, forecast.New(logger), detector)

	logger.Debug("Container initialized",
		logging.F(logging.FieldFile, cfg.Data.InputFile),
		logging.F(logging.FieldOutputDir, cfg.Output.Directory))

	return &Container{
		logger:    logger,
		config:    cfg,
		loader:    l,
		analyzer:  analyzer,
		renderer:  render.NewRenderer(logger),
		generator: report.NewGenerator(logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLoader returns the sheet loader.
func (c *Container) GetLoader() *loader.Loader {
	return c.loader
}

// GetAnalyzer returns the analysis pipeline.
func (c *Container) GetAnalyzer() *pipeline.Analyzer {
	return c.analyzer
}

// GetRenderer returns the chart renderer.
func (c *Container) GetRenderer() *render.Renderer {
	return c.renderer
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.generator
}

// NewWebAPI builds the HTTP server from the configuration, listening on addr.
func (c *Container) NewWebAPI(addr string) *server.WebAPI {
	return server.NewWebAPI(c.logger, server.Config{
		Addr:            addr,
		ShutdownTimeout: time.Duration(c.config.Server.ShutdownTimeoutSeconds) * time.Second,
		InputPath:       c.config.Data.InputFile,
		OutputDir:       c.config.Output.Directory,
		Persist:         c.config.Output.Persist,
		Dependencies: server.Dependencies{
			Analyzer: c.analyzer,
			Renderer: c.renderer,
		},
	})
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
