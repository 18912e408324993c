// Package llm is the boundary between free-text model output and the typed
// analysis request. It builds the parse prompt and decodes whatever comes back;
// it does not talk to any provider itself.
package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"farmstat/domain/analysis"
)

var (
	leadingFence  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	trailingFence = regexp.MustCompile("\\s*```$")
)

// StripCodeFences removes a surrounding markdown code block, if any.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = leadingFence.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// DecodeAnalysisRequest parses model output into a request. Output that is not a
// JSON object falls back to DefaultRequest(message), so the caller always gets
// something runnable. The returned request is normalized and keeps message as
// its description when the model left that blank.
func DecodeAnalysisRequest(modelOutput, message string) (analysis.AnalysisRequest, bool) {
	var req analysis.AnalysisRequest
	if err := json.Unmarshal([]byte(StripCodeFences(modelOutput)), &req); err != nil {
		return analysis.DefaultRequest(message), false
	}

	if strings.TrimSpace(req.Description) == "" {
		req.Description = message
	}
	req = req.Normalize()
	if req.TestKind == analysis.KindTwoSample && !req.HasGroup() {
		req.GroupField = analysis.DefaultRequest("").GroupField
	}
	return req, true
}
