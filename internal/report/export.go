package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/stockledger/stockledger/internal/csvrow"
)

const sheetName = "Report"

// FileName is the default export name, e.g. "sales_report.csv".
func (r *Report) FileName(ext string) string {
	return fmt.Sprintf("%s_report.%s", r.Type, ext)
}

// WriteCSV writes the formatted table in the data file dialect.
func (r *Report) WriteCSV(w io.Writer, currency string) error {
	if err := csvrow.Write(w, r.Headers(), r.Table(currency)); err != nil {
		return fmt.Errorf("writing %s report: %w", r.Type, err)
	}
	return nil
}

// WriteXLSX writes the report as a single-sheet workbook. Money and quantity
// columns are written as numbers so the sheet can be summed.
func (r *Report) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	for col, h := range r.Headers() {
		if err := setCell(f, col+1, 1, h); err != nil {
			return err
		}
	}

	for i, row := range r.Rows {
		values := []interface{}{row.Key, row.Quantity.Round(2).InexactFloat64(), row.Amount.InexactFloat64()}
		if r.Type == TypeProfitability {
			values = append(values,
				row.COGS.Round(2).InexactFloat64(),
				row.GrossProfit.Round(2).InexactFloat64(),
				FormatPercent(row.MarginPercent),
			)
		} else {
			values = append(values, row.Average.Round(2).InexactFloat64())
		}
		for col, v := range values {
			if err := setCell(f, col+1, i+2, v); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell %d,%d: %w", col, row, err)
	}
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		return fmt.Errorf("setting %s: %w", cell, err)
	}
	return nil
}
