package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/refclerk/refclerk/internal/bibtex"
	"github.com/refclerk/refclerk/internal/cache"
	"github.com/refclerk/refclerk/internal/cite"
	"github.com/refclerk/refclerk/internal/config"
	"github.com/refclerk/refclerk/internal/dblp"
)

// stderrLogger builds the logger used by one-shot commands: warnings and
// errors only, human-friendly, to stderr.
func stderrLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()
}

// mustLoadConfig loads the global config or exits.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// newClient builds a DBLP client from the global config.
func newClient(cfg *config.Config, log zerolog.Logger) *dblp.Client {
	opts := []dblp.ClientOption{dblp.WithLogger(log)}
	if cfg.SearchBaseURL != "" || cfg.VenueBaseURL != "" || cfg.RecordBaseURL != "" {
		opts = append(opts, dblp.WithEndpoints(cfg.SearchBaseURL, cfg.VenueBaseURL, cfg.RecordBaseURL))
	}
	if d := cfg.Timeout(); d > 0 {
		opts = append(opts, dblp.WithTimeout(d))
	}
	return dblp.NewClient(opts...)
}

// openCache opens the record cache if configured. Cache failures degrade to
// no caching rather than aborting the command.
func openCache(cfg *config.Config, log zerolog.Logger) *cache.Store {
	path := cfg.EffectiveCachePath()
	if path == "" {
		return nil
	}
	store, err := cache.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("record cache unavailable")
		return nil
	}
	return store
}

// newResolver builds the citation-record resolver for one command.
// The returned cleanup closes the cache (and is safe to call when nil).
func newResolver(cfg *config.Config, client *dblp.Client, log zerolog.Logger) (*bibtex.Resolver, func()) {
	store := openCache(cfg, log)
	cleanup := func() {
		if store != nil {
			store.Close()
		}
	}
	return bibtex.NewResolver(client, store, log), cleanup
}

// newManager builds a one-command citation session.
func newManager(cfg *config.Config, client *dblp.Client, log zerolog.Logger) (*cite.Manager, func()) {
	resolver, cleanup := newResolver(cfg, client, log)
	return cite.NewManager(resolver), cleanup
}
