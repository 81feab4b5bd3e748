// Package dateutils provides the date parsing used when loading transaction sheets.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutEuropean  = "02.01.2006"
	DateLayoutUS        = "01/02/2006"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutWithMonth = "2-Jan-2006"
	DateLayoutCompact   = "20060102"
)

// CommonFormats is the ordered list of layouts tried by ParseDate. Day-first layouts
// come before month-first ones, so "03/04/2024" is the 3rd of April.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutFull,
	time.RFC3339,
	"2006-01-02T15:04:05",
	DateLayoutCompact,
	DateLayoutEuropean,
	"02.01.2006 15:04:05",
	"2.1.2006",
	"02/01/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2/1/2006",
	"02-01-2006",
	"02-01-2006 15:04:05",
	DateLayoutUS,
	"01/02/2006 15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
	"2006/01/02",
	DateLayoutWithMonth,
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
}

var whitespace = regexp.MustCompile(`\s+`)

// ParseDate attempts to parse a date string using multiple common formats.
// Returns the parsed time and the detected format.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)
	if dateStr == "" {
		return time.Time{}, "", fmt.Errorf("unable to parse date: empty value")
	}

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// MaxExcelSerial is the serial number of 9999-12-31, the last date a workbook can hold.
const MaxExcelSerial = 2958465

// ParseCellDate parses a raw workbook cell that is either an Excel serial date
// (e.g. "45292" or "45292.5") or a textual date. Numbers outside 1..MaxExcelSerial
// are not serials and must match one of the text layouts, so "20240105" is read as
// a compact date.
func ParseCellDate(value string) (time.Time, error) {
	clean := CleanDateString(value)
	if serial, err := strconv.ParseFloat(clean, 64); err == nil && serial >= 1 && serial < MaxExcelSerial+1 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("unable to parse date: %w", err)
		}
		return t, nil
	}

	t, _, err := ParseDate(clean)
	return t, err
}

// CleanDateString removes unwanted characters and normalizes a date string
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	return whitespace.ReplaceAllString(dateStr, " ")
}
