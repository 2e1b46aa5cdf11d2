// Package bibtex fetches DBLP citation records and rewrites their embedded
// citation keys. Fetch failures are rendered as commented-out diagnostic
// lines so that the returned text stays syntactically inert if it is later
// written into a bibliography file.
package bibtex

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/refclerk/refclerk/internal/cache"
	"github.com/refclerk/refclerk/internal/dblp"
)

// errPrefix marks rendered fetch failures. A line starting with "%" is a
// comment in a bibliography file.
const errPrefix = "% Error"

// headerRe matches the leading @TYPE{KEY, header of a citation record.
var headerRe = regexp.MustCompile(`@(\w+)\{([^,]+),`)

// authorYearRe matches a capitalized word followed (eventually) by a 2-to-4
// digit number inside a persistent key, e.g. "Vaswani...17".
var authorYearRe = regexp.MustCompile(`([A-Z][a-z]+).*?(\d{2,4})`)

// IsErrorText reports whether text is a rendered fetch failure rather than a
// citation record.
func IsErrorText(text string) bool {
	return strings.HasPrefix(text, errPrefix)
}

// RewriteKey replaces the citation key in the first entry header of text
// with newKey. If no header is parseable the text is returned unmodified;
// a header is never fabricated.
func RewriteKey(text, newKey string) string {
	m := headerRe.FindStringSubmatch(text)
	if m == nil {
		return text
	}
	oldKey := m[2]
	return strings.Replace(text, "{"+oldKey+",", "{"+newKey+",", 1)
}

// EntryKey returns the citation key of the first entry header in text, or ""
// if none is parseable.
func EntryKey(text string) string {
	m := headerRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[2]
}

// DeriveKey derives a heuristic citation key from a persistent key by
// pattern-matching a capitalized word followed by a 2-to-4 digit number
// (a 2-digit year is expanded to 19xx when >= 50, else 20xx). When no such
// pattern exists, the last slash-delimited segment of the key is used.
//
// Best-effort only: the pattern is ambiguous for non-Latin capitalization
// and multi-part surnames.
func DeriveKey(persistentKey string) string {
	if m := authorYearRe.FindStringSubmatch(persistentKey); m != nil {
		author, year := m[1], m[2]
		if len(year) == 2 {
			if n, _ := strconv.Atoi(year); n < 50 {
				year = "20" + year
			} else {
				year = "19" + year
			}
		}
		return author + year
	}

	parts := strings.Split(persistentKey, "/")
	return parts[len(parts)-1]
}

// Resolver fetches citation records through a DBLP client, optionally
// consulting a local record cache first.
type Resolver struct {
	client *dblp.Client
	cache  *cache.Store // may be nil
	log    zerolog.Logger
}

// NewResolver creates a Resolver. store may be nil to disable caching.
func NewResolver(client *dblp.Client, store *cache.Store, log zerolog.Logger) *Resolver {
	return &Resolver{client: client, cache: store, log: log}
}

// fetch retrieves the record text for a URL, consulting the cache first.
// cacheKey identifies the record in the cache; cache failures are logged and
// otherwise ignored.
func (r *Resolver) fetch(ctx context.Context, cacheKey, url string) (string, error) {
	if r.cache != nil && cacheKey != "" {
		if text, ok, err := r.cache.Get(cacheKey); err != nil {
			r.log.Warn().Err(err).Str("key", cacheKey).Msg("record cache read failed")
		} else if ok {
			return text, nil
		}
	}

	text, err := r.client.FetchText(ctx, url)
	if err != nil {
		return "", err
	}

	if r.cache != nil && cacheKey != "" && strings.TrimSpace(text) != "" {
		if err := r.cache.Put(cacheKey, text); err != nil {
			r.log.Warn().Err(err).Str("key", cacheKey).Msg("record cache write failed")
		}
	}
	return text, nil
}

// FetchAndRewrite fetches the citation record for a persistent key or full
// record URL and rewrites its embedded key to newKey. Failures are returned
// as commented-out diagnostic text (see IsErrorText) rather than an error, so
// a caller assembling a bibliography can skip one bad entry without losing
// the batch.
func (r *Resolver) FetchAndRewrite(ctx context.Context, keyOrURL, newKey string) string {
	url := keyOrURL
	cacheKey := keyOrURL
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = r.client.RecordURL(keyOrURL)
	} else {
		cacheKey = strings.TrimSuffix(strings.TrimPrefix(url, dblp.RecordBaseURL), dblp.RecordSuffix)
	}

	text, err := r.fetch(ctx, cacheKey, url)
	if err != nil {
		r.log.Error().Err(err).Str("url", url).Msg("citation record fetch failed")
		if dblp.IsTimeout(err) {
			return fmt.Sprintf("%s: Timeout fetching %s after %s", errPrefix, url, r.client.Timeout())
		}
		return fmt.Sprintf("%s fetching %s: %v", errPrefix, url, err)
	}

	return RewriteKey(text, newKey)
}

// FetchEntry fetches the citation record for a persistent key and rewrites it
// with a heuristically derived citation key (see DeriveKey). Used when no
// caller-supplied key exists.
//
// Up to three URL variants derived from the key are tried in order (direct,
// slash-normalized, colon-to-slash-normalized), stopping at the first
// non-empty success. Returns "" when every variant fails with a not-found
// style error; timeouts and remote errors are rendered as commented-out
// diagnostic text.
func (r *Resolver) FetchEntry(ctx context.Context, persistentKey string) string {
	key := strings.TrimSpace(persistentKey)
	if key == "" {
		r.log.Warn().Msg("empty persistent key")
		return ""
	}

	var lastErr error
	for _, variant := range keyVariants(key) {
		url := r.client.RecordURL(variant)
		r.log.Info().Str("url", url).Msg("fetching citation record")

		text, err := r.fetch(ctx, variant, url)
		if err != nil {
			if dblp.IsTimeout(err) {
				return fmt.Sprintf("%s: Timeout fetching citation record for %s after %s",
					errPrefix, key, r.client.Timeout())
			}
			lastErr = err
			continue
		}
		if strings.TrimSpace(text) == "" {
			r.log.Warn().Str("url", url).Msg("empty citation record body")
			continue
		}

		return RewriteKey(text, DeriveKey(key))
	}

	if lastErr != nil && !dblp.IsNotFound(lastErr) {
		return fmt.Sprintf("%s fetching citation record for %s: %v", errPrefix, key, lastErr)
	}
	r.log.Warn().Str("key", key).Msg("no URL variant yielded a citation record")
	return ""
}

// keyVariants returns the URL key variants to try for a persistent key:
// the key itself, its slash form, and its colon-to-slash form, deduplicated
// in order.
func keyVariants(key string) []string {
	variants := []string{key}
	if strings.Contains(key, ":") {
		if v := strings.ReplaceAll(key, ":", "/"); v != key {
			variants = append(variants, v)
		}
	}
	return variants
}
