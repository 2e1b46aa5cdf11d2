package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/refclerk/refclerk/internal/dblp"
)

// Output formatting constants.
const (
	SummaryTitleLen = 70 // Title truncation length in result summaries
	MaxListedAuthor = 3  // Authors shown before "et al."
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError writes an error message to stderr and exits with the code.
func exitWithError(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(code)
}

// truncateString shortens s to max characters, appending "..." if truncated.
func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// printPublications writes a human-readable summary of a result list.
func printPublications(pubs []dblp.Publication) {
	if len(pubs) == 0 {
		fmt.Println("No publications found")
		return
	}

	fmt.Printf("Found %d publications:\n\n", len(pubs))
	for i, p := range pubs {
		printPubSummary(i+1, p)
	}
}

func printPubSummary(num int, p dblp.Publication) {
	if p.IsError() {
		fmt.Printf("[%d] %s\n\n", num, p.Title)
		return
	}

	fmt.Printf("[%d] %s\n", num, truncateString(p.Title, SummaryTitleLen))

	if len(p.Authors) > 0 {
		var names []string
		for i, a := range p.Authors {
			if i >= MaxListedAuthor {
				names = append(names, "et al.")
				break
			}
			names = append(names, a)
		}
		fmt.Printf("    %s\n", strings.Join(names, ", "))
	}

	venue := p.Venue
	if year, ok := p.YearValue(); ok {
		if venue != "" {
			fmt.Printf("    %s (%d)\n", venue, year)
		} else {
			fmt.Printf("    (%d)\n", year)
		}
	} else if venue != "" {
		fmt.Printf("    %s\n", venue)
	}

	if p.Similarity != nil {
		fmt.Printf("    similarity: %.2f\n", *p.Similarity)
	}
	if p.Key != "" {
		fmt.Printf("    key: %s\n", p.Key)
	}
	fmt.Println()
}
