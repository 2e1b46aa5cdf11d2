package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/refclerk/refclerk/internal/dblp"
	"github.com/refclerk/refclerk/internal/session"
)

var (
	titleThreshold float64
	titleMax       int
	titleYearFrom  int
	titleYearTo    int
	titleVenue     string
	titleCitations bool
)

func init() {
	titleCmd.Flags().Float64Var(&titleThreshold, "threshold", session.DefaultThreshold, "Minimum title similarity in [0,1]")
	titleCmd.Flags().IntVar(&titleMax, "max", dblp.DefaultMaxResults, "Maximum results to return")
	titleCmd.Flags().IntVar(&titleYearFrom, "year-from", 0, "Lower bound for publication year")
	titleCmd.Flags().IntVar(&titleYearTo, "year-to", 0, "Upper bound for publication year")
	titleCmd.Flags().StringVar(&titleVenue, "venue", "", "Case-insensitive substring filter for venues")
	titleCmd.Flags().BoolVar(&titleCitations, "citations", false, "Attach raw citation records to results")
	rootCmd.AddCommand(titleCmd)
}

var titleCmd = &cobra.Command{
	Use:   "title <title>",
	Short: "Find publications by approximate title match",
	Long: `Find publications by approximate title match.

Two retrieval strategies are combined for recall (a title-qualified query and
an unqualified one), then candidates are re-ranked locally by title
similarity and filtered by the threshold.

DBLP's own ranking may not put the exact paper first; including an author
name or year in the title argument helps.

Examples:
  refclerk title "Attention is All You Need"
  refclerk title "attention is all you need vaswani" --threshold 0.6 --citations`,
	Args: cobra.ExactArgs(1),
	RunE: runTitle,
}

func runTitle(cmd *cobra.Command, args []string) error {
	log := stderrLogger()
	cfg := mustLoadConfig()
	client := newClient(cfg, log)

	results := client.FuzzyTitleSearch(context.Background(), args[0], titleThreshold, dblp.SearchOptions{
		MaxResults:       titleMax,
		YearFrom:         titleYearFrom,
		YearTo:           titleYearTo,
		VenueFilter:      titleVenue,
		IncludeCitations: titleCitations,
	})
	if results == nil {
		results = []dblp.Publication{}
	}

	if humanOutput {
		printPublications(results)
		return nil
	}
	return outputJSON(results)
}
