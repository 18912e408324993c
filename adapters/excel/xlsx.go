package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"farmstat/domain/dataset"
)

// SheetName is the worksheet exports are written to and imports read from.
const SheetName = "Sheet1"

// WriteXLSX writes the dataset as a workbook with a single sheet. Numeric columns
// are stored as numbers so spreadsheets can compute on them.
func WriteXLSX(w io.Writer, data dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(dataset.Schema))
	for i, name := range Header() {
		header[i] = name
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range data {
		row := make([]interface{}, len(dataset.Schema))
		for j, spec := range dataset.Schema {
			v, _ := r.Value(spec.Name)
			if spec.Kind.Numeric() {
				row[j] = v.Float()
			} else {
				row[j] = v.String()
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ReadXLSX parses a workbook written by WriteXLSX, or any workbook whose first
// sheet carries the schema columns.
func ReadXLSX(r io.Reader) (dataset.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := SheetName
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	return decodeRows(rows)
}
