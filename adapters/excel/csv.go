package excel

import (
	"encoding/csv"
	"fmt"
	"io"

	"farmstat/domain/dataset"
)

// WriteCSV writes the dataset with a header row in schema order.
func WriteCSV(w io.Writer, data dataset.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range data {
		if err := cw.Write(encodeRecord(r)); err != nil {
			return fmt.Errorf("failed to write CSV row for farm %d: %w", r.FarmID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a CSV export. Every schema column must be present.
func ReadCSV(r io.Reader) (dataset.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return decodeRows(rows)
}
