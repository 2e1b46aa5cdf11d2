package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/refclerk/refclerk/internal/session"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a line-oriented operation session on stdin/stdout",
	Long: `Run a line-oriented operation session on stdin/stdout.

Each input line is one JSON request {"op": ..., "params": {...}}; each output
line is one JSON response. The citation buffer lives for the life of the
process, so add_citation_entry calls accumulate until export_citations
flushes them.

Operations: search, fuzzy_title_search, get_author_publications,
get_venue_info, calculate_statistics, add_citation_entry, export_citations.

Example:
  echo '{"op":"search","params":{"query":"quicksort","max_results":3}}' | refclerk serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// serveLogger logs to the configured log file, falling back to stderr.
// stdout is reserved for responses.
func serveLogger(path string) (zerolog.Logger, func()) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
			f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err == nil {
				log := zerolog.New(f).With().Timestamp().Logger()
				return log, func() { f.Close() }
			}
		}
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger(), func() {}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	log, closeLog := serveLogger(cfg.EffectiveLogPath())
	defer closeLog()
	log.Info().Str("version", Version).Msg("session started")

	client := newClient(cfg, log)
	manager, cleanup := newManager(cfg, client, log)
	defer cleanup()

	sess := session.New(client, manager, cfg.EffectiveExportDir(), log)
	return serveLoop(cmd.Context(), sess, os.Stdin, os.Stdout, log)
}

// serveLoop reads one JSON request per line and writes one JSON response per
// line until input is exhausted.
func serveLoop(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer, log zerolog.Logger) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	enc := json.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req session.Request
		var resp session.Response
		if err := json.Unmarshal(line, &req); err != nil {
			resp = session.Response{Error: fmt.Sprintf("invalid request: %v", err)}
		} else {
			resp = sess.Handle(ctx, req)
		}

		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}
	log.Info().Msg("session ended")
	return nil
}
