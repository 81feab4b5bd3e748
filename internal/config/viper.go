// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by the application.
const EnvPrefix = "EXPENSES"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Data struct {
		InputFile string `mapstructure:"input_file" yaml:"input_file"`
		Sheet     string `mapstructure:"sheet" yaml:"sheet"`
	} `mapstructure:"data" yaml:"data"`

	Output struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
		Persist   bool   `mapstructure:"persist" yaml:"persist"`
	} `mapstructure:"output" yaml:"output"`

	Server struct {
		Addr                   string `mapstructure:"addr" yaml:"addr"`
		ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds"`
	} `mapstructure:"server" yaml:"server"`

	Anomaly struct {
		RollingZThreshold float64 `mapstructure:"rolling_z_threshold" yaml:"rolling_z_threshold"`
		Seed              int64   `mapstructure:"seed" yaml:"seed"`
		Trees             int     `mapstructure:"trees" yaml:"trees"`
	} `mapstructure:"anomaly" yaml:"anomaly"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
// An explicit configFile takes precedence over the standard search paths.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.expense-insights")
		v.AddConfigPath(".expense-insights")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Read config file (optional unless explicitly requested)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("data.input_file", "data/expenses.xlsx")
	v.SetDefault("data.sheet", "")

	v.SetDefault("output.directory", "static")
	v.SetDefault("output.persist", false)

	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("anomaly.rolling_z_threshold", 4.0)
	v.SetDefault("anomaly.seed", 42)
	v.SetDefault("anomaly.trees", 100)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if strings.TrimSpace(config.Data.InputFile) == "" {
		return fmt.Errorf("data.input_file must not be empty")
	}

	if strings.TrimSpace(config.Output.Directory) == "" {
		return fmt.Errorf("output.directory must not be empty")
	}

	if config.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}

	if config.Server.ShutdownTimeoutSeconds < 1 || config.Server.ShutdownTimeoutSeconds > 300 {
		return fmt.Errorf("server.shutdown_timeout_seconds must be between 1 and 300, got: %d", config.Server.ShutdownTimeoutSeconds)
	}

	if config.Anomaly.RollingZThreshold < 0 {
		return fmt.Errorf("anomaly.rolling_z_threshold must be >= 0, got: %f", config.Anomaly.RollingZThreshold)
	}

	if config.Anomaly.Trees < 1 || config.Anomaly.Trees > 10000 {
		return fmt.Errorf("anomaly.trees must be between 1 and 10000, got: %d", config.Anomaly.Trees)
	}

	return nil
}
