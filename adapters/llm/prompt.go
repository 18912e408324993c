package llm

import (
	"fmt"
	"strings"

	"farmstat/domain/dataset"
)

// ColumnMetadata describes the dataset columns for the parse prompt.
func ColumnMetadata(rows int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dataset columns (%d farms):\n", rows)
	for _, spec := range dataset.Schema {
		switch {
		case len(spec.Labels) > 0:
			fmt.Fprintf(&b, "- %s: %s (%s)\n", spec.Name, spec.Kind, strings.Join(spec.Labels, ", "))
		default:
			fmt.Fprintf(&b, "- %s: %s (%s)\n", spec.Name, spec.Kind, spec.Doc)
		}
	}
	return b.String()
}

// ParseSystemPrompt instructs a model to answer with a bare AnalysisRequest object.
func ParseSystemPrompt(rows int) string {
	return `You are a statistical intent parser for an agricultural research dataset.

` + ColumnMetadata(rows) + `
Given a user's request, return a JSON object with exactly these fields:

{
  "test_type": "ttest" | "regression" | "anova",
  "group_var": string | null,
  "outcome_var": string,
  "covariates": string[],
  "filters": [{"field": string, "operator": "eq" | "neq" | "gt" | "lt" | "gte" | "lte", "value": string | number}],
  "description": string
}

Rules:
- Use "ttest" when comparing two groups (binary group_var like ` + string(dataset.DefaultGroupField) + `)
- Use "anova" when comparing 3+ categories (crop_type, soil_type, irrigation)
- Use "regression" when controlling for multiple variables or exploring continuous predictors
- outcome_var defaults to "` + string(dataset.DefaultOutcomeField) + `"
- group_var defaults to "` + string(dataset.DefaultGroupField) + `"
- For subgroup analysis, add filters (e.g. {"field": "crop_type", "operator": "eq", "value": "cotton"})
- Return ONLY valid JSON. No markdown, no explanation, no code blocks.`
}

// ParseUserPrompt wraps the user's question.
func ParseUserPrompt(message string) string {
	return fmt.Sprintf("User request: %q", message)
}
