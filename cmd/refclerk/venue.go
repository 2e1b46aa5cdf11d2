package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(venueCmd)
}

var venueCmd = &cobra.Command{
	Use:   "venue <name>",
	Short: "Look up a publication venue",
	Long: `Look up a publication venue by name or acronym.

Returns the venue's full name, acronym, type, and DBLP URL.

Examples:
  refclerk venue NeurIPS
  refclerk venue "Journal of the ACM"`,
	Args: cobra.ExactArgs(1),
	RunE: runVenue,
}

func runVenue(cmd *cobra.Command, args []string) error {
	log := stderrLogger()
	cfg := mustLoadConfig()
	client := newClient(cfg, log)

	info, err := client.LookupVenue(context.Background(), args[0])
	if err != nil {
		exitWithError(ExitError, "venue lookup: %v", err)
	}

	if humanOutput {
		if info.Venue == "" {
			fmt.Println("No venue found")
			return nil
		}
		fmt.Printf("%s", info.Venue)
		if info.Acronym != "" {
			fmt.Printf(" (%s)", info.Acronym)
		}
		fmt.Println()
		if info.Type != "" {
			fmt.Printf("    type: %s\n", info.Type)
		}
		if info.URL != "" {
			fmt.Printf("    url:  %s\n", info.URL)
		}
		return nil
	}
	return outputJSON(info)
}
