package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"farmstat/domain/dataset"
)

// DataReader loads a dataset from an .xlsx or .csv file on disk.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *zap.Logger
}

// NewDataReader picks the format from the file extension; anything other than
// .csv is read as a workbook.
func NewDataReader(filePath string, logger *zap.Logger) *DataReader {
	fileType := "xlsx"
	if strings.EqualFold(filepath.Ext(filePath), ".csv") {
		fileType = "csv"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: logger}
}

// ReadData opens the file and decodes it against the farm schema.
func (r *DataReader) ReadData() (dataset.Dataset, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("%s file not readable: %w", strings.ToUpper(r.fileType), err)
	}
	defer f.Close()

	var data dataset.Dataset
	switch r.fileType {
	case "csv":
		data, err = ReadCSV(f)
	default:
		data, err = ReadXLSX(f)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("dataset loaded",
		zap.String("path", r.filePath),
		zap.String("format", r.fileType),
		zap.Int("rows", len(data)))
	return data, nil
}

// WriteFile exports data to path, choosing the format from the extension.
func WriteFile(path string, data dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		err = WriteCSV(f, data)
	} else {
		err = WriteXLSX(f, data)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
