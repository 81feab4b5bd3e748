// Package config loads the application configuration from defaults, an optional YAML
// file, a .env file and EXPENSES_* environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from a .env file in the current or parent
// directory. It returns the file that was loaded, or "" when none was found.
// Variables already present in the environment are never overridden.
func LoadEnv() (string, error) {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return "", nil
		}
	}

	if err := godotenv.Load(envFile); err != nil {
		return "", err
	}
	return envFile, nil
}

// Load reads .env and then builds the Config.
func Load(configFile string) (*Config, error) {
	if _, err := LoadEnv(); err != nil {
		return nil, err
	}
	return InitializeConfig(configFile)
}
