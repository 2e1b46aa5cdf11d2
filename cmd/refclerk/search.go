package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/refclerk/refclerk/internal/dblp"
)

var (
	searchMax       int
	searchYearFrom  int
	searchYearTo    int
	searchVenue     string
	searchCitations bool
)

func init() {
	searchCmd.Flags().IntVar(&searchMax, "max", dblp.DefaultMaxResults, "Maximum results to return")
	searchCmd.Flags().IntVar(&searchYearFrom, "year-from", 0, "Lower bound for publication year")
	searchCmd.Flags().IntVar(&searchYearTo, "year-to", 0, "Upper bound for publication year")
	searchCmd.Flags().StringVar(&searchVenue, "venue", "", "Case-insensitive substring filter for venues")
	searchCmd.Flags().BoolVar(&searchCitations, "citations", false, "Attach raw citation records to results")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search DBLP publications",
	Long: `Search DBLP publications.

Query Syntax:
  Plain text          - Keyword search across the bibliography
  a or b              - Boolean OR: each side is searched separately and the
                        results are merged without duplicates
  author:name         - Restrict matching to author names
  title:text          - Restrict matching to titles

Parentheses are not query syntax and pass through as literal characters.

Examples:
  refclerk search "graph neural networks"
  refclerk search "Swin or Transformer" --max 5 --year-from 2020
  refclerk search "author:Knuth" --venue TAOCP`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	log := stderrLogger()
	cfg := mustLoadConfig()
	client := newClient(cfg, log)

	results := client.Search(context.Background(), args[0], dblp.SearchOptions{
		MaxResults:       searchMax,
		YearFrom:         searchYearFrom,
		YearTo:           searchYearTo,
		VenueFilter:      searchVenue,
		IncludeCitations: searchCitations,
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
