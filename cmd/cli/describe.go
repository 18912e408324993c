package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"farmstat/internal/profiling"
)

func newDescribeCmd() *cobra.Command {
	var input string
	var seed int64

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Summarize every column of the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := analysisFlags{input: input, seed: seed}
			data, err := flags.loadDataset()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "field\tkind\tmean\tsd\tmin\tmedian\tmax\tnormality p\tlevels\n")
			for _, s := range profiling.Describe(data) {
				if len(s.Levels) > 0 {
					levels := make([]string, len(s.Levels))
					for i, l := range s.Levels {
						levels[i] = fmt.Sprintf("%s=%d", l.Level, l.Count)
					}
					fmt.Fprintf(tw, "%s\t%s\t\t\t\t\t\t\t%s\n", s.Field, s.Kind, strings.Join(levels, " "))
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.4f\t\n",
					s.Field, s.Kind, s.Mean, s.StdDev, s.Min, s.Median, s.Max, s.NormalityP)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Dataset file (.csv or .xlsx); generated from --seed when empty")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Generator seed when no --input is given")
	return cmd
}
