// Package report renders analysis results for people: the plain-text block handed
// to a narrator, and a markdown/HTML report of a single analysis.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"farmstat/domain/analysis"
	"farmstat/domain/dataset"
)

func fixed(x float64, decimals int) string {
	return strconv.FormatFloat(x, 'f', decimals, 64)
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

// FormatForNarration lays out a result as labelled lines. Values are formatted,
// never recomputed.
func FormatForNarration(r analysis.StatResult) string {
	lines := []string{
		"Test: " + r.TestLabel,
		fmt.Sprintf("Total sample: %d farms", r.N),
		fmt.Sprintf("Filtered sample (after applying conditions): %d farms", r.NFiltered),
		"Test statistic: " + fixed(r.Statistic, 4),
		"p-value: " + fixed(r.PValue, 4),
		fmt.Sprintf("Statistically significant at α=%s: %s", dataset.FormatNumber(analysis.SignificanceLevel), yesNo(r.Significant)),
	}

	if len(r.GroupMeans) > 0 {
		lines = append(lines, "Group means:")
		for _, m := range r.GroupMeans {
			lines = append(lines, fmt.Sprintf("  %s: %s kg/hectare", m.Name, dataset.FormatNumber(m.Value)))
		}
	}

	if len(r.Coefficients) > 0 {
		lines = append(lines, "Coefficients:")
		for _, c := range r.Coefficients {
			lines = append(lines, fmt.Sprintf("  %s: %s", c.Name, fixed(c.Value, 3)))
		}
	}

	if r.RSquared != nil {
		lines = append(lines, "R-squared: "+fixed(*r.RSquared, 4))
	}

	return strings.Join(lines, "\n")
}

// Markdown renders a report of one analysis. question may be empty.
func Markdown(question string, req analysis.AnalysisRequest, r analysis.StatResult) string {
	req = req.Normalize()
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.TestLabel)
	if q := strings.TrimSpace(question); q != "" {
		fmt.Fprintf(&b, "> %s\n\n", q)
	}
	if req.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", req.Description)
	}

	b.WriteString("## Request\n\n")
	fmt.Fprintf(&b, "- Outcome: `%s`\n", req.OutcomeField)
	if req.HasGroup() {
		fmt.Fprintf(&b, "- Group: `%s`\n", req.GroupField)
	}
	if len(req.Covariates) > 0 {
		names := make([]string, len(req.Covariates))
		for i, c := range req.Covariates {
			names[i] = "`" + string(c) + "`"
		}
		fmt.Fprintf(&b, "- Covariates: %s\n", strings.Join(names, ", "))
	}
	for _, f := range req.Filters {
		fmt.Fprintf(&b, "- Filter: `%s %s %s`\n", f.Field, f.Operator, f.Value.String())
	}

	b.WriteString("\n## Result\n\n")
	b.WriteString("| Measure | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Farms | %d |\n", r.N)
	fmt.Fprintf(&b, "| Farms after filters | %d |\n", r.NFiltered)
	fmt.Fprintf(&b, "| Statistic | %s |\n", fixed(r.Statistic, 4))
	fmt.Fprintf(&b, "| p-value | %s |\n", fixed(r.PValue, 4))
	if r.RSquared != nil {
		fmt.Fprintf(&b, "| R² | %s |\n", fixed(*r.RSquared, 4))
	}
	fmt.Fprintf(&b, "| Significant (α=%s) | %s |\n", dataset.FormatNumber(analysis.SignificanceLevel), yesNo(r.Significant))

	if len(r.GroupMeans) > 0 {
		b.WriteString("\n### Group means\n\n| Group | Mean |\n|---|---|\n")
		for _, m := range r.GroupMeans {
			fmt.Fprintf(&b, "| %s | %s |\n", m.Name, fixed(m.Value, 2))
		}
	}
	if len(r.Coefficients) > 0 {
		b.WriteString("\n### Coefficients\n\n| Term | Estimate |\n|---|---|\n")
		for _, c := range r.Coefficients {
			fmt.Fprintf(&b, "| %s | %s |\n", c.Name, fixed(c.Value, 3))
		}
	}

	if r.Description != "" {
		fmt.Fprintf(&b, "\n_%s_\n", r.Description)
	}
	return b.String()
}

// HTML renders Markdown(...) to an HTML fragment.
func HTML(question string, req analysis.AnalysisRequest, r analysis.StatResult) string {
	return string(RenderHTML(Markdown(question, req, r)))
}

// RenderHTML converts markdown to HTML with tables enabled.
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return markdown.Render(doc, renderer)
}
