package loader

import (
	"fmt"

	"fjacquet/expense-insights/internal/apperror"
	"fjacquet/expense-insights/internal/logging"

	"github.com/xuri/excelize/v2"
)

func (l *Loader) readXLSX(path string) ([]rawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening workbook %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			l.logger.WithError(err).Warn("Failed to close workbook", logging.F(logging.FieldFile, path))
		}
	}()

	sheet := l.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &apperror.DataFormatError{FilePath: path, Msg: "workbook has no sheets"}
		}
		sheet = sheets[0]
	}

	// Raw values keep dates as serial numbers instead of the cell's display format.
	cells, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &apperror.DataFormatError{FilePath: path, Msg: fmt.Sprintf("cannot read sheet %q", sheet), Err: err}
	}
	if len(cells) == 0 {
		return nil, &apperror.DataFormatError{FilePath: path, Row: 1, Msg: "sheet has no header row"}
	}

	positions, err := headerIndex(path, cells[0])
	if err != nil {
		return nil, err
	}

	l.logger.Debug("Read workbook sheet",
		logging.F(logging.FieldFile, path),
		logging.F("sheet", sheet),
		logging.F(logging.FieldCount, len(cells)-1))

	rows := make([]rawRow, 0, len(cells)-1)
	for i, record := range cells[1:] {
		rows = append(rows, rawRow{
			Line:     i + 2,
			Workbook: true,
			Date:     cell(record, positions[ColumnDate]),
			Amount:   cell(record, positions[ColumnAmount]),
			Category: cell(record, positions[ColumnCategory]),
			Type:     cell(record, positions[ColumnType]),
		})
	}
	return rows, nil
}

// cell returns record[i], or "" when excelize trimmed trailing empty cells.
func cell(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}
