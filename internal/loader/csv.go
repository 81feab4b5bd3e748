package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/expense-insights/internal/apperror"
	"fjacquet/expense-insights/internal/logging"

	"github.com/gocarina/gocsv"
)

// csvRow maps the source columns through gocsv struct tags.
type csvRow struct {
	Date     string `csv:"Date"`
	Amount   string `csv:"Debit/Credit"`
	Category string `csv:"Category"`
	Type     string `csv:"Income/Expense"`
}

// canonicalHeaderReader rewrites the header record to the canonical column names so
// that gocsv's exact tag matching accepts headers written in any case.
type canonicalHeaderReader struct {
	r         *csv.Reader
	positions map[string]int
	header    []string
	consumed  bool
	lines     []int
}

func (c *canonicalHeaderReader) Read() ([]string, error) {
	if !c.consumed {
		c.consumed = true
		out := make([]string, len(c.header))
		copy(out, c.header)
		for col, i := range c.positions {
			out[i] = col
		}
		return out, nil
	}
	rec, err := c.r.Read()
	if err == nil {
		line, _ := c.r.FieldPos(0)
		c.lines = append(c.lines, line)
	}
	return rec, err
}

func (c *canonicalHeaderReader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		rec, err := c.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return records, err
		}
		records = append(records, rec)
	}
}

func (l *Loader) readCSV(path string) ([]rawRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			l.logger.WithError(err).Warn("Failed to close file", logging.F(logging.FieldFile, path))
		}
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &apperror.DataFormatError{FilePath: path, Row: 1, Msg: "cannot read header row", Err: err}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	positions, err := headerIndex(path, header)
	if err != nil {
		return nil, err
	}

	var records []csvRow
	hr := &canonicalHeaderReader{r: reader, positions: positions, header: header}
	if err := gocsv.UnmarshalCSV(hr, &records); err != nil {
		return nil, &apperror.DataFormatError{FilePath: path, Msg: "malformed CSV", Err: err}
	}

	l.logger.Debug("Read CSV rows",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(records)))

	rows := make([]rawRow, len(records))
	for i, rec := range records {
		line := i + 2
		if i < len(hr.lines) {
			line = hr.lines[i]
		}
		rows[i] = rawRow{
			Line:     line,
			Date:     rec.Date,
			Amount:   rec.Amount,
			Category: rec.Category,
			Type:     rec.Type,
		}
	}
	return rows, nil
}
