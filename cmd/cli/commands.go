package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"farmstat/adapters/excel"
	"farmstat/adapters/report"
	"farmstat/adapters/stats/engine"
	"farmstat/adapters/stats/hypothesis"
	"farmstat/domain/analysis"
	"farmstat/domain/dataset"
	"farmstat/internal/logging"
	"farmstat/internal/testkit"
)

func newGenerateCmd() *cobra.Command {
	var seed int64
	var count int
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic farm dataset",
		Long: `Generate a deterministic farm dataset and write it as CSV or XLSX.

Example: farmstat generate --seed 12345 --out farms.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed < 0 {
				seed = testkit.NewSeed()
			}
			data := testkit.NewFarmGenerator(testkit.GeneratorConfig{Seed: seed, FarmCount: count}).Generate()

			if out == "" {
				return excel.WriteCSV(cmd.OutOrStdout(), data)
			}
			if err := excel.WriteFile(out, data); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d farms (seed %d) to %s\n", len(data), seed, out)
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", -1, "Generator seed; negative picks a random one")
	cmd.Flags().IntVar(&count, "count", testkit.DefaultFarmCount, "Number of farms")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (.csv or .xlsx); stdout CSV when empty")

	return cmd
}

// analysisFlags are shared by analyze and report.
type analysisFlags struct {
	input      string
	seed       int64
	testType   string
	group      string
	outcome    string
	covariates []string
	filters    []string
	desc       string
	levels     string
	verbose    bool
}

func (f *analysisFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Dataset file (.csv or .xlsx); generated from --seed when empty")
	cmd.Flags().Int64Var(&f.seed, "seed", 42, "Generator seed when no --input is given")
	cmd.Flags().StringVarP(&f.testType, "test", "t", string(analysis.KindTwoSample), "Test: ttest, anova or regression")
	cmd.Flags().StringVarP(&f.group, "group", "g", "", "Grouping field, or first predictor for regression")
	cmd.Flags().StringVar(&f.outcome, "outcome", string(dataset.DefaultOutcomeField), "Outcome field")
	cmd.Flags().StringSliceVar(&f.covariates, "covariate", nil, "Regression covariate (repeatable)")
	cmd.Flags().StringArrayVarP(&f.filters, "filter", "f", nil, "Filter as field:op:value, e.g. crop_type:eq:rice (repeatable)")
	cmd.Flags().StringVarP(&f.desc, "description", "d", "", "Free-text description of the analysis")
	cmd.Flags().StringVar(&f.levels, "levels", string(hypothesis.LevelsFirst), "Two-sample level policy: first, lexicographic or strict")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Log engine activity to stderr")
}

func (f *analysisFlags) request() (analysis.AnalysisRequest, error) {
	req := analysis.AnalysisRequest{
		TestKind:     analysis.TestKind(f.testType),
		GroupField:   dataset.Field(f.group),
		OutcomeField: dataset.Field(f.outcome),
		Description:  f.desc,
	}
	for _, c := range f.covariates {
		req.Covariates = append(req.Covariates, dataset.Field(strings.TrimSpace(c)))
	}
	for _, raw := range f.filters {
		cond, err := parseFilter(raw)
		if err != nil {
			return analysis.AnalysisRequest{}, err
		}
		req.Filters = append(req.Filters, cond)
	}
	return req, nil
}

func (f *analysisFlags) loadDataset() (dataset.Dataset, error) {
	if f.input != "" {
		return excel.NewDataReader(f.input, nil).ReadData()
	}
	return testkit.GenerateFarms(f.seed), nil
}

func (f *analysisFlags) buildEngine() (*engine.StatsEngine, error) {
	policy, err := hypothesis.ParseLevelPolicy(f.levels)
	if err != nil {
		return nil, err
	}
	logger := logging.NewNop()
	if f.verbose {
		logger = logging.NewDevelopment()
	}
	return engine.NewStatsEngine(engine.WithLevelPolicy(policy), engine.WithLogger(logger.Logger)), nil
}

// run validates and runs the request described by the flags.
func (f *analysisFlags) run(cmd *cobra.Command) (analysis.AnalysisRequest, analysis.StatResult, error) {
	req, err := f.request()
	if err != nil {
		return req, analysis.StatResult{}, err
	}
	data, err := f.loadDataset()
	if err != nil {
		return req, analysis.StatResult{}, err
	}
	eng, err := f.buildEngine()
	if err != nil {
		return req, analysis.StatResult{}, err
	}
	result, err := eng.Analyze(cmd.Context(), data, req)
	return req, result, err
}

func newAnalyzeCmd() *cobra.Command {
	var flags analysisFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one hypothesis test",
		Long: `Filter the dataset and run a two-sample t-test, one-way ANOVA or OLS regression.

Example: farmstat analyze --test anova --group soil_type -f rainfall_mm:gte:900`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, result, err := flags.run(cmd)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.FormatForNarration(result))
			if result.Description != "" {
				fmt.Fprintln(cmd.OutOrStdout(), result.Description)
			}
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func newReportCmd() *cobra.Command {
	var flags analysisFlags
	var format, question string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run one hypothesis test and render a markdown or HTML report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, result, err := flags.run(cmd)
			if err != nil {
				return err
			}
			switch strings.ToLower(format) {
			case "markdown", "md":
				fmt.Fprint(cmd.OutOrStdout(), report.Markdown(question, req, result))
			case "html":
				fmt.Fprint(cmd.OutOrStdout(), report.HTML(question, req, result))
			default:
				return fmt.Errorf("unknown format %q (want markdown or html)", format)
			}
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: markdown or html")
	cmd.Flags().StringVarP(&question, "question", "q", "", "Question quoted at the top of the report")
	return cmd
}
