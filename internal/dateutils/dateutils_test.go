package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name        string
		dateStr     string
		expectedOk  bool
		expectedY   int
		expectedM   time.Month
		expectedD   int
		expectedFmt string
	}{
		{"ISO format", "2023-01-15", true, 2023, time.January, 15, DateLayoutISO},
		{"European format", "15.01.2023", true, 2023, time.January, 15, DateLayoutEuropean},
		{"Day first slash", "03/04/2023", true, 2023, time.April, 3, "02/01/2006"},
		{"US format when day-first is impossible", "01/15/2023", true, 2023, time.January, 15, DateLayoutUS},
		{"Slash with time", "20/09/2018 12:04:08", true, 2018, time.September, 20, "02/01/2006 15:04:05"},
		{"Compact", "20240105", true, 2024, time.January, 5, DateLayoutCompact},
		{"Full timestamp", "2023-01-15 10:30:45", true, 2023, time.January, 15, DateLayoutFull},
		{"With month name", "15-Jan-2023", true, 2023, time.January, 15, DateLayoutWithMonth},
		{"Extra whitespace", "  2023-01-15  ", true, 2023, time.January, 15, DateLayoutISO},
		{"Empty string", "", false, 0, 0, 0, ""},
		{"Invalid format", "not a date", false, 0, 0, 0, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			date, format, err := ParseDate(tc.dateStr)

			if !tc.expectedOk {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedY, date.Year())
			assert.Equal(t, tc.expectedM, date.Month())
			assert.Equal(t, tc.expectedD, date.Day())
			assert.Equal(t, tc.expectedFmt, format)
		})
	}
}

func TestParseCellDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "serial date", value: "45292", want: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{name: "serial with time", value: "45292.5", want: time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)},
		{name: "text date", value: "2024-02-29", want: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)},
		{name: "last valid serial", value: "2958465", want: time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)},
		{name: "compact date is not a serial", value: "20240105", want: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)},
		{name: "serial past year 9999", value: "2958466", wantErr: true},
		{name: "negative serial", value: "-5", wantErr: true},
		{name: "zero serial", value: "0", wantErr: true},
		{name: "garbage", value: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCellDate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.WithinDuration(t, tt.want, got, time.Second)
		})
	}
}
