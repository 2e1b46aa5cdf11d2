// Package main provides the refclerk CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refclerk",
	Short: "Agent-first DBLP lookup and citation assembly",
	Long: `refclerk looks up publications in the DBLP computer-science
bibliography and assembles citation files from the results.

It supports boolean-OR search with year and venue filters, fuzzy author and
title matching, venue lookup, and a citation buffer that collects rewritten
citation records for a single bulk export. All commands output JSON by
default for easy integration with AI agents and other tools; a line-oriented
session mode is available via 'refclerk serve'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env if present (for REFCLERK_* overrides)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
