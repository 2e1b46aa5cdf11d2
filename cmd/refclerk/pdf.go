package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refclerk/refclerk/internal/dblp"
	"github.com/refclerk/refclerk/internal/pdfdoi"
)

var pdfMax int

func init() {
	pdfCmd.Flags().IntVar(&pdfMax, "max", 5, "Maximum results to return")
	rootCmd.AddCommand(pdfCmd)
}

var pdfCmd = &cobra.Command{
	Use:   "pdf <file>",
	Short: "Find the DBLP record for a local PDF",
	Long: `Find the DBLP record for a local PDF.

Extracts a DOI from the first pages of the PDF and searches DBLP for it.

Examples:
  refclerk pdf ~/papers/attention.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runPDF,
}

func runPDF(cmd *cobra.Command, args []string) error {
	log := stderrLogger()
	cfg := mustLoadConfig()

	doi, err := pdfdoi.Extract(args[0])
	if err != nil {
		exitWithError(ExitError, "reading PDF: %v", err)
	}
	if doi == "" {
		exitWithError(ExitDataError, "no DOI found in %s", args[0])
	}

	client := newClient(cfg, log)
	results := client.Search(context.Background(), doi, dblp.SearchOptions{MaxResults: pdfMax})
	if results == nil {
		results = []dblp.Publication{}
	}

	if humanOutput {
		fmt.Printf("DOI: %s\n\n", doi)
		printPublications(results)
		return nil
	}
	return outputJSON(struct {
		DOI     string             `json:"doi"`
		Results []dblp.Publication `json:"results"`
	}{doi, results})
}
