package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "farmstat",
		Short: "Run hypothesis tests against the GrowMax farm dataset",
	}

	rootCmd.AddCommand(
		newGenerateCmd(),
		newDescribeCmd(),
		newAnalyzeCmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
