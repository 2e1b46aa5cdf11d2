package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refclerk/refclerk/internal/session"
)

var (
	authorThreshold float64
	authorMax       int
	authorCitations bool
)

func init() {
	authorCmd.Flags().Float64Var(&authorThreshold, "threshold", session.DefaultThreshold, "Minimum author-name similarity in [0,1]")
	authorCmd.Flags().IntVar(&authorMax, "max", 20, "Maximum results to return")
	authorCmd.Flags().BoolVar(&authorCitations, "citations", false, "Attach raw citation records to results")
	rootCmd.AddCommand(authorCmd)
}

var authorCmd = &cobra.Command{
	Use:   "author <name>",
	Short: "Get publications for an author with fuzzy name matching",
	Long: `Get publications for an author with fuzzy name matching.

Candidates are retrieved with an author-qualified query, then kept only when
the best similarity between the given name and any author of the candidate
reaches the threshold. A threshold of 1.0 requires an exact
(case-insensitive) name match.

The output includes aggregate statistics over the matched set: top venues,
top years, and a publication-type breakdown.

Examples:
  refclerk author "Donald E. Knuth"
  refclerk author "J. Doe" --threshold 0.7 --max 50`,
	Args: cobra.ExactArgs(1),
	RunE: runAuthor,
}

func runAuthor(cmd *cobra.Command, args []string) error {
	log := stderrLogger()
	cfg := mustLoadConfig()
	client := newClient(cfg, log)

	result := client.AuthorPublications(context.Background(), args[0], authorThreshold, authorMax, authorCitations)

	if humanOutput {
		fmt.Printf("%s: %d publications\n\n", result.Name, result.PublicationCount)
		printPublications(result.Publications)
		return nil
	}
	return outputJSON(result)
}
