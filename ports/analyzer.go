package ports

import (
	"context"

	"farmstat/domain/analysis"
	"farmstat/domain/dataset"
)

// Analyzer runs hypothesis tests against a dataset
type Analyzer interface {
	Validate(data dataset.Dataset, req analysis.AnalysisRequest) error
	Analyze(ctx context.Context, data dataset.Dataset, req analysis.AnalysisRequest) (analysis.StatResult, error)
	AnalyzeBatch(ctx context.Context, data dataset.Dataset, reqs []analysis.AnalysisRequest) ([]analysis.StatResult, error)
}

// DatasetReader loads a dataset from some external source
type DatasetReader interface {
	ReadData() (dataset.Dataset, error)
}
