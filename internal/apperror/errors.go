// Package apperror defines the error taxonomy of the analysis pipeline.
// Callers distinguish the kinds with errors.As.
package apperror

import "fmt"

// DataFormatError reports a missing or malformed required column or an unparsable
// value. It aborts the whole analysis request.
type DataFormatError struct {
	FilePath string
	Row      int // 1-based spreadsheet row, 0 when the error is not row specific
	Column   string
	Value    string
	Msg      string
	Err      error
}

func (e *DataFormatError) Error() string {
	msg := fmt.Sprintf("invalid data in '%s'", e.FilePath)
	if e.Row > 0 {
		msg += fmt.Sprintf(" at row %d", e.Row)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(", column '%s'", e.Column)
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" (value '%s')", e.Value)
	}
	msg += ": " + e.Msg
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *DataFormatError) Unwrap() error {
	return e.Err
}

// ForecastError reports that the savings series cannot support the configured model,
// or that fitting produced no usable forecast. It only affects the forecast.
type ForecastError struct {
	Observations int
	Required     int
	Msg          string
	Err          error
}

func (e *ForecastError) Error() string {
	msg := "forecast failed: " + e.Msg
	if e.Required > 0 {
		msg += fmt.Sprintf(" (have %d observations, need at least %d)", e.Observations, e.Required)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *ForecastError) Unwrap() error {
	return e.Err
}

// RenderError reports that a single chart could not be produced or written.
type RenderError struct {
	Chart string
	Path  string
	Msg   string
	Err   error
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("render %s failed", e.Chart)
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
