package ports

import (
	"context"

	"farmstat/domain/analysis"
)

// LLMClient is the minimal surface of a text completion provider.
type LLMClient interface {
	ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// RequestParser turns a natural-language question into an analysis request.
// Unparseable model output falls back to the default request; errors are
// reserved for transport failures.
type RequestParser interface {
	ParseRequest(ctx context.Context, message string) (analysis.AnalysisRequest, error)
}
