package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"farmstat/domain/analysis"
	"farmstat/ports"
)

// FallbackParser answers every question with the default request. It stands in
// when no model is configured.
type FallbackParser struct{}

// ParseRequest implements ports.RequestParser.
func (FallbackParser) ParseRequest(_ context.Context, message string) (analysis.AnalysisRequest, error) {
	return analysis.DefaultRequest(message), nil
}

// ModelParser asks an LLM to structure the question and decodes its answer.
type ModelParser struct {
	client ports.LLMClient
	rows   int
	logger *zap.Logger
}

// NewModelParser creates a parser over client. rows is the dataset size quoted in
// the prompt.
func NewModelParser(client ports.LLMClient, rows int, logger *zap.Logger) *ModelParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelParser{client: client, rows: rows, logger: logger}
}

// ParseRequest implements ports.RequestParser.
func (p *ModelParser) ParseRequest(ctx context.Context, message string) (analysis.AnalysisRequest, error) {
	out, err := p.client.ChatCompletion(ctx, ParseSystemPrompt(p.rows), ParseUserPrompt(message))
	if err != nil {
		return analysis.AnalysisRequest{}, fmt.Errorf("parse request: %w", err)
	}

	req, ok := DecodeAnalysisRequest(out, message)
	if !ok {
		p.logger.Warn("model output was not a request; using default",
			zap.String("message", message),
			zap.Int("output_len", len(out)))
	}
	return req, nil
}

var (
	_ ports.RequestParser = FallbackParser{}
	_ ports.RequestParser = (*ModelParser)(nil)
)
