package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"farmstat/domain/analysis"
	"farmstat/domain/dataset"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

func TestStripCodeFences(t *testing.T) {
	tests := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```JSON {\"a\":1}```":     `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		"  {\"a\":1}  ":            `{"a":1}`,
	}
	for in, want := range tests {
		assert.Equal(t, want, StripCodeFences(in), in)
	}
}

func TestDecodeAnalysisRequest(t *testing.T) {
	out := "```json\n" + `{
	  "test_type": "ANOVA",
	  "group_var": "soil_type",
	  "outcome_var": "yield_kg_per_hectare",
	  "covariates": [],
	  "filters": [{"field": "rainfall_mm", "operator": "GTE", "value": 900}],
	  "description": "Yield by soil type, high rainfall only"
	}` + "\n```"

	req, ok := DecodeAnalysisRequest(out, "does soil matter when it rains a lot?")
	require.True(t, ok)
	assert.Equal(t, analysis.KindANOVA, req.TestKind)
	assert.Equal(t, dataset.FieldSoilType, req.GroupField)
	require.Len(t, req.Filters, 1)
	assert.Equal(t, analysis.OpGte, req.Filters[0].Operator)
	assert.Equal(t, 900.0, req.Filters[0].Value.Float())
	assert.Equal(t, "Yield by soil type, high rainfall only", req.Description)
}

func TestDecodeAnalysisRequest_FillsDefaults(t *testing.T) {
	req, ok := DecodeAnalysisRequest(`{"test_type":"ttest","group_var":null,"filters":[{"field":"crop_type","operator":"eq","value":"cotton"}]}`, "cotton only")
	require.True(t, ok)
	assert.Equal(t, dataset.DefaultGroupField, req.GroupField)
	assert.Equal(t, dataset.DefaultOutcomeField, req.OutcomeField)
	assert.Equal(t, "cotton only", req.Description)
	assert.Equal(t, "cotton", req.Filters[0].Value.String())
}

func TestDecodeAnalysisRequest_FallsBack(t *testing.T) {
	for _, out := range []string{"", "Sure! Here is the analysis you asked for.", "[1,2,3]", "```json\n{\"test_type\": \n```"} {
		req, ok := DecodeAnalysisRequest(out, "is growmax good?")
		assert.False(t, ok, out)
		assert.Equal(t, analysis.DefaultRequest("is growmax good?"), req, out)
	}
}

func TestFallbackParser(t *testing.T) {
	req, err := FallbackParser{}.ParseRequest(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, analysis.DefaultRequest("anything"), req)
}

func TestModelParser(t *testing.T) {
	client := new(mockClient)
	client.On("ChatCompletion", mock.Anything, ParseSystemPrompt(200), ParseUserPrompt("regress yield on rainfall")).
		Return(`{"test_type":"regression","outcome_var":"yield_kg_per_hectare","covariates":["rainfall_mm"],"filters":[]}`, nil).Once()

	p := NewModelParser(client, 200, nil)
	req, err := p.ParseRequest(context.Background(), "regress yield on rainfall")
	require.NoError(t, err)
	assert.Equal(t, analysis.KindRegression, req.TestKind)
	assert.Equal(t, []dataset.Field{dataset.FieldRainfall}, req.Covariates)
	client.AssertExpectations(t)
}

func TestModelParser_TransportError(t *testing.T) {
	client := new(mockClient)
	client.On("ChatCompletion", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("timeout"))

	_, err := NewModelParser(client, 200, nil).ParseRequest(context.Background(), "q")
	assert.ErrorContains(t, err, "timeout")
}

func TestParseSystemPrompt_ListsEveryColumn(t *testing.T) {
	prompt := ParseSystemPrompt(200)
	assert.Contains(t, prompt, "Dataset columns (200 farms)")
	for _, name := range dataset.FieldNames() {
		assert.Contains(t, prompt, name)
	}
	assert.Contains(t, prompt, "wheat, rice, sorghum, maize, cotton")
}
