package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refclerk/refclerk/internal/bibtex"
	"github.com/refclerk/refclerk/internal/cite"
)

func init() {
	rootCmd.AddCommand(bibCmd)
}

var bibCmd = &cobra.Command{
	Use:   "bib <key>",
	Short: "Fetch one citation record with a derived citation key",
	Long: `Fetch one citation record by persistent key and print it with a
heuristically derived citation key (first capitalized word plus year from
the key, falling back to the key's last path segment).

Use 'refclerk cite' instead when you want to choose the citation key.

Examples:
  refclerk bib conf/nips/VaswaniSPUJGKP17
  refclerk bib https://dblp.org/rec/journals/jacm/Knuth77.bib`,
	Args: cobra.ExactArgs(1),
	RunE: runBib,
}

func runBib(cmd *cobra.Command, args []string) error {
	log := stderrLogger()
	cfg := mustLoadConfig()
	client := newClient(cfg, log)
	resolver, cleanup := newResolver(cfg, client, log)
	defer cleanup()

	entry := resolver.FetchEntry(context.Background(), cite.SanitizeKey(args[0]))
	if entry == "" {
		exitWithError(ExitDataError, "no citation record found for %s", args[0])
	}
	if bibtex.IsErrorText(entry) {
		exitWithError(ExitError, "%s", entry)
	}

	fmt.Print(entry)
	return nil
}
