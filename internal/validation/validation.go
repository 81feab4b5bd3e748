// Package validation checks user supplied paths and options before any work starts.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SupportedInputExtensions are the sheet formats the loader reads.
var SupportedInputExtensions = []string{".xlsx", ".xlsm", ".csv"}

// SupportedReportFormats are the formats of the report command.
var SupportedReportFormats = []string{"json", "yaml", "text"}

// InputFile checks that path is an existing regular file with a supported extension.
func InputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking input file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("input path %s is not a regular file", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedInputExtensions {
		if ext == supported {
			return nil
		}
	}
	return fmt.Errorf("unsupported input file type %q. Supported types are %s", ext, strings.Join(SupportedInputExtensions, ", "))
}

// ReportFormat checks if the given report format is supported.
func ReportFormat(format string) error {
	for _, supported := range SupportedReportFormats {
		if strings.EqualFold(format, supported) {
			return nil
		}
	}
	return fmt.Errorf("unsupported report format: %s. Supported formats are %s", format, strings.Join(SupportedReportFormats, ", "))
}
