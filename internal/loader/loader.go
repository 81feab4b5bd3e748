// Package loader reads a bank-transaction sheet and normalizes it into a models.Table.
// Both .xlsx workbooks and .csv exports are supported. Any malformed row aborts the
// load with an *apperror.DataFormatError; there is no partial recovery.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/expense-insights/internal/apperror"
	"fjacquet/expense-insights/internal/dateutils"
	"fjacquet/expense-insights/internal/logging"
	"fjacquet/expense-insights/internal/models"
)

// Required column headers of the source sheet.
const (
	ColumnDate     = "Date"
	ColumnAmount   = "Debit/Credit"
	ColumnCategory = "Category"
	ColumnType     = "Income/Expense"
)

// RequiredColumns lists the headers every sheet must carry.
var RequiredColumns = []string{ColumnDate, ColumnAmount, ColumnCategory, ColumnType}

// rawRow is one source row before normalization. Line is the 1-based row number
// in the source file, the header being line 1. Workbook rows carry raw cell values,
// so their dates may be Excel serial numbers.
type rawRow struct {
	Line     int
	Workbook bool
	Date     string
	Amount   string
	Category string
	Type     string
}

func (r rawRow) blank() bool {
	return strings.TrimSpace(r.Date) == "" && strings.TrimSpace(r.Amount) == "" &&
		strings.TrimSpace(r.Category) == "" && strings.TrimSpace(r.Type) == ""
}

// Loader loads transaction sheets.
type Loader struct {
	logger logging.Logger
	sheet  string
}

// NewLoader creates a Loader. sheet selects the workbook sheet for .xlsx input;
// empty means the first sheet.
func NewLoader(logger logging.Logger, sheet string) *Loader {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Loader{logger: logger, sheet: sheet}
}

// Load reads the file at path and returns its rows as a normalized table, in source order.
func (l *Loader) Load(ctx context.Context, path string) (models.Table, error) {
	l.logger.Info("Loading transactions", logging.F(logging.FieldFile, path))

	var (
		rows []rawRow
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		rows, err = l.readXLSX(path)
	case ".csv":
		rows, err = l.readCSV(path)
	default:
		return nil, &apperror.DataFormatError{
			FilePath: path,
			Msg:      fmt.Sprintf("unsupported file extension %q (expected .xlsx or .csv)", ext),
		}
	}
	if err != nil {
		return nil, err
	}

	table, err := l.normalize(ctx, path, rows)
	if err != nil {
		return nil, err
	}

	l.logger.Info("Loaded transactions",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(table)))
	return table, nil
}

func (l *Loader) normalize(ctx context.Context, path string, rows []rawRow) (models.Table, error) {
	table := make(models.Table, 0, len(rows))
	unknown := make(map[models.Category]struct{})

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		if row.blank() {
			continue
		}

		tx, err := normalizeRow(path, row)
		if err != nil {
			return nil, err
		}

		if !tx.Category.Known() {
			if _, seen := unknown[tx.Category]; !seen {
				unknown[tx.Category] = struct{}{}
				l.logger.Warn("Category outside the known taxonomy",
					logging.F(logging.FieldCategory, tx.Category.String()),
					logging.F(logging.FieldRow, row.Line))
			}
		}
		table = append(table, tx)
	}
	return table, nil
}

func normalizeRow(path string, row rawRow) (models.Transaction, error) {
	fail := func(column, value, msg string, err error) error {
		return &apperror.DataFormatError{
			FilePath: path,
			Row:      row.Line,
			Column:   column,
			Value:    value,
			Msg:      msg,
			Err:      err,
		}
	}

	date, err := parseDate(row)
	if err != nil {
		return models.Transaction{}, fail(ColumnDate, row.Date, "unparsable date", err)
	}

	amount, err := models.ParseAmount(row.Amount)
	if err != nil {
		return models.Transaction{}, fail(ColumnAmount, row.Amount, "unparsable amount", err)
	}

	category := models.NormalizeCategory(row.Category)
	if category == "" {
		return models.Transaction{}, fail(ColumnCategory, row.Category, "empty category", nil)
	}

	txType, err := models.ParseTransactionType(row.Type)
	if err != nil {
		return models.Transaction{}, fail(ColumnType, row.Type, "missing income/expense flag", err)
	}

	return models.Transaction{
		Date:     date,
		Amount:   amount,
		Category: category,
		Type:     txType,
	}, nil
}

func parseDate(row rawRow) (time.Time, error) {
	if row.Workbook {
		return dateutils.ParseCellDate(row.Date)
	}
	t, _, err := dateutils.ParseDate(row.Date)
	return t, err
}

// headerIndex maps each required column to its position in header. Headers are
// matched after trimming, case-insensitively.
func headerIndex(path string, header []string) (map[string]int, error) {
	positions := make(map[string]int, len(RequiredColumns))
	for i, h := range header {
		for _, col := range RequiredColumns {
			if _, taken := positions[col]; !taken && strings.EqualFold(strings.TrimSpace(h), col) {
				positions[col] = i
			}
		}
	}
	for _, col := range RequiredColumns {
		if _, ok := positions[col]; !ok {
			return nil, &apperror.DataFormatError{
				FilePath: path,
				Row:      1,
				Column:   col,
				Msg:      "required column is missing",
			}
		}
	}
	return positions, nil
}
