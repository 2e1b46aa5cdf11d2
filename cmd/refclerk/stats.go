package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/refclerk/refclerk/internal/dblp"
	"github.com/refclerk/refclerk/internal/stats"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Calculate statistics over a publication list",
	Long: `Calculate statistics over a publication list.

Reads a JSON array of publication records (as produced by the search
commands) from the given file, or from stdin when no file is given, and
reports the total count, the publication-year range, and author and venue
frequency breakdowns.

Examples:
  refclerk search "phylogenetics" --max 100 | refclerk stats
  refclerk stats results.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitWithError(ExitError, "reading input: %v", err)
	}

	var pubs []dblp.Publication
	if err := json.Unmarshal(data, &pubs); err != nil {
		exitWithError(ExitDataError, "parsing publication list: %v", err)
	}

	summary := stats.Compute(pubs)

	if humanOutput {
		fmt.Printf("Total publications: %d\n", summary.TotalPublications)
		if summary.TimeRange.Min != nil {
			fmt.Printf("Years: %d-%d\n", *summary.TimeRange.Min, *summary.TimeRange.Max)
		}
		fmt.Println("\nTop authors:")
		for _, f := range summary.TopAuthors {
			fmt.Printf("  %4d  %s\n", f.Count, f.Value)
		}
		fmt.Println("\nTop venues:")
		for _, f := range summary.TopVenues {
			fmt.Printf("  %4d  %s\n", f.Count, f.Value)
		}
		return nil
	}
	return outputJSON(summary)
}
