package excel

import (
	"fmt"
	"strings"

	"farmstat/domain/core"
	"farmstat/domain/dataset"
)

// Header returns the column names written to the first row of every export.
func Header() []string {
	return dataset.FieldNames()
}

func encodeRecord(r dataset.Record) []string {
	row := make([]string, len(dataset.Schema))
	for i, spec := range dataset.Schema {
		v, _ := r.Value(spec.Name)
		row[i] = v.String()
	}
	return row
}

// columnIndex maps each schema field to its position in header. Columns may appear
// in any order; unknown and duplicate columns are rejected, as are missing ones.
func columnIndex(header []string) (map[dataset.Field]int, error) {
	idx := make(map[dataset.Field]int, len(header))
	for i, h := range header {
		name := dataset.Field(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, ok := dataset.Lookup(name); !ok {
			return nil, core.NewMalformedDatasetError(1, fmt.Sprintf("unknown column %q", name))
		}
		if _, dup := idx[name]; dup {
			return nil, core.NewMalformedDatasetError(1, fmt.Sprintf("duplicate column %q", name))
		}
		idx[name] = i
	}
	for _, spec := range dataset.Schema {
		if _, ok := idx[spec.Name]; !ok {
			return nil, core.NewMalformedDatasetError(1, fmt.Sprintf("missing column %q", spec.Name))
		}
	}
	return idx, nil
}

// decodeRows turns header-led string rows into records. Row numbers in errors are
// 1-based and count the header.
func decodeRows(rows [][]string) (dataset.Dataset, error) {
	if len(rows) == 0 {
		return nil, core.NewMalformedDatasetError(1, "missing header row")
	}
	idx, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	out := make(dataset.Dataset, 0, len(rows)-1)
	for n, row := range rows[1:] {
		rowNum := n + 2
		if isBlank(row) {
			continue
		}
		var rec dataset.Record
		for _, spec := range dataset.Schema {
			cell := ""
			if i := idx[spec.Name]; i < len(row) {
				cell = strings.TrimSpace(row[i])
			}
			if err := rec.Set(spec.Name, parseCell(spec, cell)); err != nil {
				return nil, core.NewMalformedDatasetError(rowNum, err.Error())
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseCell(spec dataset.FieldSpec, cell string) dataset.Value {
	if spec.Kind.Numeric() {
		return dataset.Number(dataset.ParseNumber(cell))
	}
	return dataset.Label(cell)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
