package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/refclerk/refclerk/internal/cite"
)

var citeOut string

func init() {
	citeCmd.Flags().StringVar(&citeOut, "out", "", "Output .bib path (default: timestamped file in the export directory)")
	rootCmd.AddCommand(citeCmd)
}

var citeCmd = &cobra.Command{
	Use:   "cite <key=citekey> [key=citekey...]",
	Short: "Fetch citation records, rewrite their keys, and export a .bib file",
	Long: `Fetch citation records, rewrite their keys, and export a .bib file.

Each argument maps a DBLP persistent key to the citation key you want in the
exported file. The persistent key may also be given as a full record URL or
with a .bib suffix; both are normalized. Records are written in argument
order, separated by blank lines. Repeating a citation key keeps only the
last record given for it.

A failed fetch skips that entry (reported on stderr) without losing the rest
of the batch.

Examples:
  refclerk cite conf/nips/VaswaniSPUJGKP17=Vaswani2017 --out refs.bib
  refclerk cite journals/jacm/Knuth77=Knuth1977 conf/stoc/Cook71=Cook1971`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCite,
}

func runCite(cmd *cobra.Command, args []string) error {
	log := stderrLogger()
	cfg := mustLoadConfig()
	client := newClient(cfg, log)
	manager, cleanup := newManager(cfg, client, log)
	defer cleanup()

	ctx := context.Background()
	failed := 0
	for _, arg := range args {
		key, citekey, ok := strings.Cut(arg, "=")
		if !ok || key == "" || citekey == "" {
			exitWithError(ExitError, "invalid mapping %q (expected key=citekey)", arg)
		}

		if _, err := manager.Add(ctx, key, citekey); err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", key, err)
			failed++
		}
	}

	if manager.Len() == 0 {
		exitWithError(ExitDataError, "no citation records could be fetched")
	}

	out := citeOut
	if out == "" {
		out = filepath.Join(cfg.EffectiveExportDir(), time.Now().Format("20060102_150405")+cite.BibExtension)
	}

	result, err := manager.Export(out)
	if err != nil {
		exitWithError(ExitError, "exporting: %v", err)
	}

	if humanOutput {
		fmt.Printf("Wrote %d entries to %s", result.Count, result.FilePath)
		if failed > 0 {
			fmt.Printf(" (%d failed)", failed)
		}
		fmt.Println()
		return nil
	}
	return outputJSON(struct {
		cite.ExportResult
		Failed int `json:"failed,omitempty"`
	}{result, failed})
}
